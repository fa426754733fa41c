package mystore

import (
	"context"
	"os"
)

type ctxTransactionKey struct{}

// Filter follows the datastore conventions: Compare is one of "=", "<", "<=", ">", ">=".
type Filter struct {
	Field   string
	Compare string
	Value   any
}

type Store[T any] interface {
	RunInTransaction(c context.Context, f func(c context.Context) error) error
	Put(c context.Context, uid string, value T) error
	Get(c context.Context, uid string) (T, bool, error)
	List(c context.Context) ([]T, error)
	// Query orders ascending on orderByField, a leading "-" means descending. An empty orderByField keeps store order.
	Query(c context.Context, filters []Filter, orderByField string) ([]T, error)
}

func New[T any](c context.Context) (Store[T], func(), error) {
	if os.Getenv("GOOGLE_CLOUD_PROJECT") != "" {
		return newGcloudStore[T](c)
	}

	return NewInMemoryStore[T](c)
}
