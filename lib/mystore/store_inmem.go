package mystore

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
	"time"
)

type InMemoryStore[T any] struct {
	sync.Mutex
	Items map[string]T
}

func NewInMemoryStore[T any](c context.Context) (*InMemoryStore[T], func(), error) {
	return &InMemoryStore[T]{
		Items: make(map[string]T),
	}, func() {}, nil
}

// heldLocks tracks which in-memory stores are locked by the transactions in the current call chain.
type heldLocks map[any]struct{}

func (s *InMemoryStore[T]) inTransaction(c context.Context) bool {
	held, ok := c.Value(ctxTransactionKey{}).(heldLocks)
	if !ok {
		return false
	}
	_, found := held[s]
	return found
}

func (s *InMemoryStore[T]) RunInTransaction(c context.Context, f func(c context.Context) error) error {
	if s.inTransaction(c) {
		return f(c)
	}

	held := heldLocks{}
	if outer, ok := c.Value(ctxTransactionKey{}).(heldLocks); ok {
		for k := range outer {
			held[k] = struct{}{}
		}
	}
	held[s] = struct{}{}

	// Start transaction
	s.Lock()
	defer s.Unlock()

	// No rollback: callers only write once all checks passed
	return f(context.WithValue(c, ctxTransactionKey{}, held))
}

func (s *InMemoryStore[T]) lock(c context.Context) func() {
	if s.inTransaction(c) {
		return func() {}
	}
	s.Lock()
	return s.Unlock
}

func (s *InMemoryStore[T]) Put(c context.Context, uid string, value T) error {
	defer s.lock(c)()

	s.Items[uid] = value

	return nil
}

func (s *InMemoryStore[T]) Get(c context.Context, uid string) (T, bool, error) {
	defer s.lock(c)()

	result, exists := s.Items[uid]

	return result, exists, nil
}

func (s *InMemoryStore[T]) List(c context.Context) ([]T, error) {
	defer s.lock(c)()

	result := make([]T, 0, len(s.Items))
	for _, v := range s.Items {
		result = append(result, v)
	}

	return result, nil
}

func (s *InMemoryStore[T]) Query(c context.Context, filters []Filter, orderByField string) ([]T, error) {
	all, err := s.List(c)
	if err != nil {
		return nil, err
	}

	result := make([]T, 0, len(all))
	for _, item := range all {
		matches, err := matchesAll(item, filters)
		if err != nil {
			return nil, err
		}
		if matches {
			result = append(result, item)
		}
	}

	if orderByField == "" {
		return result, nil
	}

	descending := strings.HasPrefix(orderByField, "-")
	fieldName := strings.TrimPrefix(orderByField, "-")
	var sortErr error
	sort.SliceStable(result, func(i, j int) bool {
		cmp, err := compareValues(fieldOf(result[i], fieldName), fieldOf(result[j], fieldName))
		if err != nil {
			sortErr = err
			return false
		}
		if descending {
			return cmp > 0
		}
		return cmp < 0
	})
	if sortErr != nil {
		return nil, fmt.Errorf("error ordering on field %s: %w", fieldName, sortErr)
	}

	return result, nil
}

func matchesAll(item any, filters []Filter) (bool, error) {
	for _, f := range filters {
		field := fieldOf(item, f.Field)
		if !field.IsValid() {
			return false, fmt.Errorf("unknown field %s", f.Field)
		}
		cmp, err := compareValues(field, reflect.ValueOf(f.Value))
		if err != nil {
			return false, fmt.Errorf("error filtering on field %s: %w", f.Field, err)
		}
		ok := false
		switch f.Compare {
		case "=":
			ok = cmp == 0
		case "<":
			ok = cmp < 0
		case "<=":
			ok = cmp <= 0
		case ">":
			ok = cmp > 0
		case ">=":
			ok = cmp >= 0
		default:
			return false, fmt.Errorf("unsupported comparison %q", f.Compare)
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

func fieldOf(item any, name string) reflect.Value {
	v := reflect.Indirect(reflect.ValueOf(item))
	if v.Kind() != reflect.Struct {
		return reflect.Value{}
	}
	return v.FieldByName(name)
}

var timeType = reflect.TypeOf(time.Time{})

func compareValues(a, b reflect.Value) (int, error) {
	if !a.IsValid() || !b.IsValid() {
		return 0, fmt.Errorf("cannot compare missing values")
	}

	if a.Type() == timeType && b.Type() == timeType {
		return a.Interface().(time.Time).Compare(b.Interface().(time.Time)), nil
	}

	switch a.Kind() {
	case reflect.String:
		if b.Kind() == reflect.String {
			return strings.Compare(a.String(), b.String()), nil
		}
	case reflect.Bool:
		if b.Kind() == reflect.Bool {
			if a.Bool() == b.Bool() {
				return 0, nil
			}
			if !a.Bool() {
				return -1, nil
			}
			return 1, nil
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if b.CanInt() {
			return compareOrdered(a.Int(), b.Int()), nil
		}
	case reflect.Float32, reflect.Float64:
		if b.CanFloat() {
			return compareOrdered(a.Float(), b.Float()), nil
		}
	}

	return 0, fmt.Errorf("incompatible types %s and %s", a.Type(), b.Type())
}

func compareOrdered[V int64 | float64](a, b V) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
