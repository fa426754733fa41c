package cart

import (
	"context"
	"fmt"
	"sync"

	"github.com/MarcGrol/travelshop/lib/mystore"
)

// storage applies the persistence policy: callers never decide themselves where a cart lives.
type storage struct {
	durable mystore.Store[StoredCart]

	sync.Mutex
	volatile map[string]Cart
}

func newStorage(durable mystore.Store[StoredCart]) *storage {
	return &storage{
		durable:  durable,
		volatile: map[string]Cart{},
	}
}

func (s *storage) load(c context.Context, ownerUID string, role string) (Cart, error) {
	if !ShouldPersist(role) {
		s.Lock()
		defer s.Unlock()

		cart, found := s.volatile[ownerUID]
		if !found {
			return newCart(ownerUID), nil
		}
		return cart.clone(), nil
	}

	stored, found, err := s.durable.Get(c, ownerUID)
	if err != nil {
		return Cart{}, fmt.Errorf("error fetching cart of %s: %w", ownerUID, err)
	}
	if !found {
		return newCart(ownerUID), nil
	}

	cart, err := stored.toCart()
	if err != nil {
		return Cart{}, fmt.Errorf("error decoding cart of %s: %w", ownerUID, err)
	}
	return cart, nil
}

func (s *storage) save(c context.Context, cart Cart, role string) error {
	if !ShouldPersist(role) {
		s.Lock()
		defer s.Unlock()

		s.volatile[cart.OwnerUID] = cart.clone()
		return nil
	}

	err := s.durable.Put(c, cart.OwnerUID, cart.toStored())
	if err != nil {
		return fmt.Errorf("error storing cart of %s: %w", cart.OwnerUID, err)
	}
	return nil
}

func (c Cart) clone() Cart {
	clone := c
	clone.Items = make(map[Key]Item, len(c.Items))
	for k, v := range c.Items {
		clone.Items[k] = v
	}
	return clone
}
