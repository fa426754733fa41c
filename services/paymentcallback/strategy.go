package paymentcallback

import (
	"context"
	"errors"

	"github.com/MarcGrol/travelshop/lib/mylog"
)

var errNoStrategies = errors.New("no strategies to try")

// Strategy is one named way of obtaining a T.
type Strategy[T any] struct {
	Name    string
	Attempt func(c context.Context) (T, error)
}

// FirstSuccess runs the strategies strictly in order and stops at the first one that returns no error.
// It returns the winning result and strategy name. When every strategy fails, it returns the last
// strategy's result and error unchanged, with an empty name.
func FirstSuccess[T any](c context.Context, logger mylog.Logger, label string, strategies []Strategy[T]) (T, string, error) {
	var (
		last    T
		lastErr = errNoStrategies
	)

	for _, s := range strategies {
		result, err := s.Attempt(c)
		if err == nil {
			logger.Log(c, label, mylog.SeverityInfo, "Strategy %s succeeded", s.Name)
			return result, s.Name, nil
		}
		logger.Log(c, label, mylog.SeverityInfo, "Strategy %s did not succeed: %s", s.Name, err)
		last, lastErr = result, err
	}

	return last, "", lastErr
}
