package warmup

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/MarcGrol/travelshop/lib/mycontext"
	"github.com/MarcGrol/travelshop/lib/myerrors"
	"github.com/MarcGrol/travelshop/lib/myhttp"
	"github.com/MarcGrol/travelshop/lib/mylog"
)

// Check touches one dependency so that its connection is established before real traffic arrives.
type Check struct {
	Name string
	Ping func(c context.Context) error
}

type webService struct {
	logger mylog.Logger
	checks []Check
}

// Use dependency injection to isolate the infrastructure and ease testing
func NewService(checks ...Check) *webService {
	return &webService{
		logger: mylog.New("warmup"),
		checks: checks,
	}
}

func (s webService) RegisterEndpoints(c context.Context, router *mux.Router) error {
	router.HandleFunc("/_ah/warmup", s.warmupPage()).Methods("GET")

	return nil
}

func (s *webService) warmupPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		for _, check := range s.checks {
			err := check.Ping(c)
			if err != nil {
				errorWriter.WriteError(c, w, 1, myerrors.NewUnavailableError(fmt.Errorf("warmup of %s failed: %w", check.Name, err)))
				return
			}
			s.logger.Log(c, "", mylog.SeverityDebug, "Warmed up %s", check.Name)
		}

		errorWriter.Write(c, w, http.StatusOK, myhttp.SuccessResponse{
			Message: "Successfully processed warmup request",
		})
	}
}
