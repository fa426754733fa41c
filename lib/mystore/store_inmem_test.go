package mystore

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type booking struct {
	UID       string
	Status    string
	Amount    int
	CreatedAt time.Time
}

var (
	t0       = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	booking1 = booking{UID: "TNDT1", Status: "paid", Amount: 100, CreatedAt: t0.Add(2 * time.Minute)}
	booking2 = booking{UID: "TNDT2", Status: "pending", Amount: 250, CreatedAt: t0}
	booking3 = booking{UID: "TNDT3", Status: "paid", Amount: 50, CreatedAt: t0.Add(time.Minute)}
)

func TestStore(t *testing.T) {
	c := context.TODO()
	bs, cleanup, err := NewInMemoryStore[booking](c)
	assert.NoError(t, err)
	defer cleanup()

	t.Run("Get not found", func(t *testing.T) {
		_, found, err := bs.Get(c, booking1.UID)
		assert.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("Put", func(t *testing.T) {
		err = bs.Put(c, booking1.UID, booking1)
		assert.NoError(t, err)
	})

	t.Run("Get found", func(t *testing.T) {
		b, found, err := bs.Get(c, booking1.UID)
		assert.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, booking1, b)
	})

	t.Run("List", func(t *testing.T) {
		all, err := bs.List(c)
		assert.NoError(t, err)
		assert.Equal(t, []booking{booking1}, all)
	})
}

func TestQuery(t *testing.T) {
	c := context.TODO()
	bs, _, _ := NewInMemoryStore[booking](c)
	for _, b := range []booking{booking1, booking2, booking3} {
		assert.NoError(t, bs.Put(c, b.UID, b))
	}

	testCases := []struct {
		name     string
		filters  []Filter
		orderBy  string
		expected []booking
	}{
		{name: "order ascending on time", orderBy: "CreatedAt", expected: []booking{booking2, booking3, booking1}},
		{name: "order descending on time", orderBy: "-CreatedAt", expected: []booking{booking1, booking3, booking2}},
		{name: "filter on status", filters: []Filter{{Field: "Status", Compare: "=", Value: "paid"}}, orderBy: "Amount", expected: []booking{booking3, booking1}},
		{name: "filter on amount", filters: []Filter{{Field: "Amount", Compare: ">=", Value: 100}}, orderBy: "UID", expected: []booking{booking1, booking2}},
		{name: "no match", filters: []Filter{{Field: "Status", Compare: "=", Value: "refunded"}}, expected: []booking{}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := bs.Query(c, tc.filters, tc.orderBy)
			assert.NoError(t, err)
			assert.Equal(t, tc.expected, result)
		})
	}

	t.Run("unknown field", func(t *testing.T) {
		_, err := bs.Query(c, []Filter{{Field: "Color", Compare: "=", Value: "red"}}, "")
		assert.Error(t, err)
	})
}

func TestNestedTransactions(t *testing.T) {
	c := context.TODO()
	bookings, _, _ := NewInMemoryStore[booking](c)
	other, _, _ := NewInMemoryStore[booking](c)

	err := bookings.RunInTransaction(c, func(c context.Context) error {
		err := bookings.Put(c, booking1.UID, booking1)
		assert.NoError(t, err)

		return other.RunInTransaction(c, func(c context.Context) error {
			// still holding the lock of the outer store
			_, found, err := bookings.Get(c, booking1.UID)
			assert.True(t, found)
			assert.NoError(t, err)

			return other.Put(c, booking2.UID, booking2)
		})
	})
	assert.NoError(t, err)

	_, found, _ := other.Get(c, booking2.UID)
	assert.True(t, found)
}

func TestTransactionsSerialize(t *testing.T) {
	c := context.TODO()
	counters, _, _ := NewInMemoryStore[booking](c)
	assert.NoError(t, counters.Put(c, "counter", booking{UID: "counter"}))

	wg := sync.WaitGroup{}
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			counters.RunInTransaction(c, func(c context.Context) error {
				b, _, _ := counters.Get(c, "counter")
				b.Amount++
				return counters.Put(c, "counter", b)
			})
		}()
	}
	wg.Wait()

	b, _, _ := counters.Get(c, "counter")
	assert.Equal(t, 50, b.Amount)
}
