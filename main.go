package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/MarcGrol/travelshop/lib/myconfig"
	"github.com/MarcGrol/travelshop/lib/myhttpclient"
	"github.com/MarcGrol/travelshop/lib/mylog"
	"github.com/MarcGrol/travelshop/lib/mypublisher"
	"github.com/MarcGrol/travelshop/lib/mypubsub"
	"github.com/MarcGrol/travelshop/lib/myqueue"
	"github.com/MarcGrol/travelshop/lib/mystore"
	"github.com/MarcGrol/travelshop/lib/mytime"
	"github.com/MarcGrol/travelshop/lib/myuuid"
	"github.com/MarcGrol/travelshop/services/cart"
	"github.com/MarcGrol/travelshop/services/paymentapi"
	"github.com/MarcGrol/travelshop/services/paymentcallback"
	"github.com/MarcGrol/travelshop/services/paymentevents"
	"github.com/MarcGrol/travelshop/services/warmup"
)

func main() {
	c := context.Background()

	cfg, err := myconfig.Load()
	if err != nil {
		log.Fatalf("Error loading configuration: %s", err)
	}

	router := mux.NewRouter()

	cleanup, err := registerServices(c, cfg, router)
	if err != nil {
		log.Fatalf("Error registering services: %s", err)
	}
	defer cleanup()

	startWebServerBlocking(cfg, router)
}

func registerServices(c context.Context, cfg myconfig.Config, router *mux.Router) (func(), error) {
	cleanups := []func(){}
	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}

	pubsub, pubsubCleanup, err := mypubsub.New(c)
	if err != nil {
		return cleanup, fmt.Errorf("error creating pubsub: %s", err)
	}
	cleanups = append(cleanups, pubsubCleanup)

	queue, queueCleanup, err := myqueue.New(c)
	if err != nil {
		return cleanup, fmt.Errorf("error creating queue: %s", err)
	}
	cleanups = append(cleanups, queueCleanup)

	publisher, publisherCleanup, err := mypublisher.New(c, pubsub, queue, mytime.RealNower{})
	if err != nil {
		return cleanup, fmt.Errorf("error creating publisher: %s", err)
	}
	cleanups = append(cleanups, publisherCleanup)
	publisher.RegisterEndpoints(c, router)

	err = publisher.CreateTopic(c, paymentevents.TopicName)
	if err != nil {
		return cleanup, fmt.Errorf("error creating topic %s: %s", paymentevents.TopicName, err)
	}

	cartStore, cartStoreCleanup, err := mystore.New[cart.StoredCart](c)
	if err != nil {
		return cleanup, fmt.Errorf("error creating cart store: %s", err)
	}
	cleanups = append(cleanups, cartStoreCleanup)

	cartService := cart.NewService(cartStore, mytime.RealNower{}, mylog.New("cart"))
	err = cart.NewWebService(cartService).RegisterEndpoints(c, router)
	if err != nil {
		return cleanup, fmt.Errorf("error registering cart endpoints: %s", err)
	}

	recordStore, recordStoreCleanup, err := mystore.New[paymentcallback.ReconciliationRecord](c)
	if err != nil {
		return cleanup, fmt.Errorf("error creating reconciliation store: %s", err)
	}
	cleanups = append(cleanups, recordStoreCleanup)

	logger := mylog.New("paymentcallback")
	reconciler := paymentcallback.NewReconciler(paymentcallback.Config{
		EnhancedEnabled:      cfg.EnhancedEnabled,
		UnifiedLookupEnabled: cfg.UnifiedLookupEnabled,
		Retry:                cfg.RetryOptions(),
	}, newBackend(cfg, logger), recordStore, publisher, mytime.RealNower{}, myuuid.RealUUIDer{}, logger)

	err = paymentcallback.NewWebService(reconciler, cartService).RegisterEndpoints(c, router)
	if err != nil {
		return cleanup, fmt.Errorf("error registering payment callback endpoints: %s", err)
	}

	err = warmup.NewService(
		warmup.Check{Name: "cart store", Ping: func(c context.Context) error {
			_, _, err := cartStore.Get(c, "warmup")
			return err
		}},
		warmup.Check{Name: "reconciliation store", Ping: func(c context.Context) error {
			_, _, err := recordStore.Get(c, "warmup")
			return err
		}},
	).RegisterEndpoints(c, router)
	if err != nil {
		return cleanup, fmt.Errorf("error registering warmup endpoints: %s", err)
	}

	return cleanup, nil
}

func newBackend(cfg myconfig.Config, logger mylog.Logger) paymentapi.Backend {
	if cfg.UsesFakeBackend() {
		log.Printf("No BACKEND_BASE_URL configured: using in-memory demo backend (order codes 100001 and 200001)")
		return paymentapi.NewDemoBackend()
	}
	return paymentapi.NewHTTPBackend(cfg.BackendBaseURL, myhttpclient.New(logger, cfg.BackendTimeout))
}

func startWebServerBlocking(cfg myconfig.Config, router *mux.Router) {
	log.Printf("Starting webserver on port %d (try http://localhost:%d/api/payment/callback/success?orderCode=100001)", cfg.Port, cfg.Port)
	err := http.ListenAndServe(cfg.ListenAddress(), router)
	if err != nil {
		log.Fatalf("Error starting webserver on port %d: %s", cfg.Port, err)
	}
}
