package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/MarcGrol/travelshop/lib/myconfig"
	"github.com/MarcGrol/travelshop/lib/myhttpclient"
	"github.com/MarcGrol/travelshop/lib/mylog"
	"github.com/MarcGrol/travelshop/lib/mypublisher"
	"github.com/MarcGrol/travelshop/lib/mypubsub"
	"github.com/MarcGrol/travelshop/lib/myqueue"
	"github.com/MarcGrol/travelshop/lib/mystore"
	"github.com/MarcGrol/travelshop/lib/mytime"
	"github.com/MarcGrol/travelshop/lib/myuuid"
	"github.com/MarcGrol/travelshop/services/paymentapi"
	"github.com/MarcGrol/travelshop/services/paymentcallback"
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "paymentctl",
		Short:         "Inspect and replay PayOS payment callbacks",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().String("config", "", "Optional yaml configuration file, environment variables take precedence")

	rootCmd.AddCommand(normalizeCmd())
	rootCmd.AddCommand(parseCmd())
	rootCmd.AddCommand(detectCmd())
	rootCmd.AddCommand(reconcileCmd())

	return rootCmd
}

func normalizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "normalize [order-code]",
		Short: "Show the backend form of a PayOS order code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return printJSON(cmd.OutOrStdout(), map[string]string{
				"input":     args[0],
				"orderCode": paymentcallback.NormalizeOrderCode(args[0]),
			})
		},
	}
}

type parseResult struct {
	Params     paymentcallback.CallbackParams `json:"params"`
	Identifier string                         `json:"identifier,omitempty"`
	OrderCode  string                         `json:"orderCode,omitempty"`
	Cancelled  bool                           `json:"cancelled"`
}

func parseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse [callback-url]",
		Short: "Show what is extracted from a PayOS redirect url",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params := paymentcallback.ParseCallbackParams(args[0])
			result := parseResult{
				Params:    params,
				Cancelled: params.IsCancelled(),
			}
			identifier, found := params.Identifier()
			if found {
				result.Identifier = identifier
				result.OrderCode = paymentcallback.NormalizeOrderCode(identifier)
			}

			err := printJSON(cmd.OutOrStdout(), result)
			if err != nil {
				return err
			}
			if !found {
				return paymentcallback.ErrOrderCodeMissing
			}
			return nil
		},
	}
}

func detectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "detect [order-code]",
		Short: "Determine whether an order code belongs to a tour booking or a product order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := context.Background()

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			logger := mylog.New("paymentctl")
			detector := paymentcallback.NewDetector(newBackend(cmd, cfg, logger), logger, cfg.UnifiedLookupEnabled)
			detection, err := detector.DetectPaymentType(c, args[0])
			if err != nil {
				return err
			}

			return printJSON(cmd.OutOrStdout(), detection)
		},
	}
}

func reconcileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reconcile [callback-url]",
		Short: "Replay a PayOS redirect against the backend",
		Long: `Runs the same reconciliation as the callback page: detect the payment type,
confirm it on the backend with retries and publish the resulting event.
A callback that was already reconciled is reported as duplicate.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := context.Background()

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			flow := paymentcallback.FlowSuccess
			cancel, _ := cmd.Flags().GetBool("cancel")
			if cancel {
				flow = paymentcallback.FlowCancel
			}

			reconciler, cleanup, err := newReconciler(c, cmd, cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			outcome, reconcileErr := reconciler.Reconcile(c, flow, args[0])

			err = printJSON(cmd.OutOrStdout(), paymentcallback.NewCallbackResponse(outcome))
			if err != nil {
				return err
			}
			return reconcileErr
		},
	}

	cmd.Flags().Bool("cancel", false, "Treat the url as a cancel redirect")

	return cmd
}

func loadConfig(cmd *cobra.Command) (myconfig.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	return myconfig.LoadFile(path)
}

func newBackend(cmd *cobra.Command, cfg myconfig.Config, logger mylog.Logger) paymentapi.Backend {
	if cfg.UsesFakeBackend() {
		fmt.Fprintln(cmd.ErrOrStderr(), "No BACKEND_BASE_URL configured: using in-memory demo backend")
		return paymentapi.NewDemoBackend()
	}
	return paymentapi.NewHTTPBackend(cfg.BackendBaseURL, myhttpclient.New(logger, cfg.BackendTimeout))
}

func newReconciler(c context.Context, cmd *cobra.Command, cfg myconfig.Config) (*paymentcallback.Reconciler, func(), error) {
	cleanups := []func(){}
	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}

	pubsub, pubsubCleanup, err := mypubsub.New(c)
	if err != nil {
		return nil, func() {}, fmt.Errorf("error creating pubsub: %w", err)
	}
	cleanups = append(cleanups, pubsubCleanup)

	queue, queueCleanup, err := myqueue.New(c)
	if err != nil {
		cleanup()
		return nil, func() {}, fmt.Errorf("error creating queue: %w", err)
	}
	cleanups = append(cleanups, queueCleanup)

	publisher, publisherCleanup, err := mypublisher.New(c, pubsub, queue, mytime.RealNower{})
	if err != nil {
		cleanup()
		return nil, func() {}, fmt.Errorf("error creating publisher: %w", err)
	}
	cleanups = append(cleanups, publisherCleanup)

	records, recordsCleanup, err := mystore.New[paymentcallback.ReconciliationRecord](c)
	if err != nil {
		cleanup()
		return nil, func() {}, fmt.Errorf("error creating reconciliation store: %w", err)
	}
	cleanups = append(cleanups, recordsCleanup)

	logger := mylog.New("paymentctl")
	reconciler := paymentcallback.NewReconciler(paymentcallback.Config{
		EnhancedEnabled:      cfg.EnhancedEnabled,
		UnifiedLookupEnabled: cfg.UnifiedLookupEnabled,
		Retry:                cfg.RetryOptions(),
	}, newBackend(cmd, cfg, logger), records, publisher, mytime.RealNower{}, myuuid.RealUUIDer{}, logger)

	return reconciler, cleanup, nil
}

func printJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
