package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/MarcGrol/travelshop/lib/myerrors"
	"github.com/MarcGrol/travelshop/lib/mylog"
	"github.com/MarcGrol/travelshop/lib/mystore"
	"github.com/MarcGrol/travelshop/lib/mytime"
)

var (
	ErrOwnerMissing  = errors.New("cart requires an identified visitor")
	ErrItemNotInCart = errors.New("item not in cart")
	ErrInvalidItem   = errors.New("invalid cart item")
)

type Service struct {
	// serializes read-modify-write per process, last write wins between add and clear
	sync.Mutex
	durable mystore.Store[StoredCart]
	storage *storage
	nower   mytime.Nower
	logger  mylog.Logger
}

func NewService(durable mystore.Store[StoredCart], nower mytime.Nower, logger mylog.Logger) *Service {
	return &Service{
		durable: durable,
		storage: newStorage(durable),
		nower:   nower,
		logger:  logger,
	}
}

func (s *Service) Get(c context.Context, ownerUID string, role string) (Cart, error) {
	if ownerUID == "" {
		return Cart{}, myerrors.NewAuthenticationError(ErrOwnerMissing)
	}

	s.Lock()
	defer s.Unlock()

	cart, err := s.storage.load(c, ownerUID, role)
	if err != nil {
		return Cart{}, myerrors.NewInternalError(err)
	}
	return cart, nil
}

// AddItem merges the quantity into an existing line with the same key, the latest name and price win.
func (s *Service) AddItem(c context.Context, ownerUID string, role string, item Item) (Cart, error) {
	if !item.Type.Valid() || item.ProductID == "" || item.Quantity <= 0 || item.Price.IsNegative() {
		return Cart{}, myerrors.NewInvalidInputError(fmt.Errorf("%w: %+v", ErrInvalidItem, item))
	}

	return s.modify(c, ownerUID, role, func(cart *Cart) error {
		existing, found := cart.Items[item.Key()]
		if found {
			item.Quantity += existing.Quantity
		}
		cart.Items[item.Key()] = item

		s.logger.Log(c, ownerUID, mylog.SeverityInfo, "Added %d x %s %s to cart of %s", item.Quantity, item.Type, item.ProductID, ownerUID)
		return nil
	})
}

// UpdateQuantity removes the line when quantity drops to zero or below.
func (s *Service) UpdateQuantity(c context.Context, ownerUID string, role string, key Key, quantity int) (Cart, error) {
	return s.modify(c, ownerUID, role, func(cart *Cart) error {
		item, found := cart.Items[key]
		if !found {
			return myerrors.NewNotFoundError(fmt.Errorf("%w: %s %s", ErrItemNotInCart, key.Type, key.ProductID))
		}

		if quantity <= 0 {
			delete(cart.Items, key)
			return nil
		}
		item.Quantity = quantity
		cart.Items[key] = item
		return nil
	})
}

// RemoveItem is idempotent.
func (s *Service) RemoveItem(c context.Context, ownerUID string, role string, key Key) (Cart, error) {
	return s.modify(c, ownerUID, role, func(cart *Cart) error {
		delete(cart.Items, key)
		return nil
	})
}

// Clear empties the cart, this is what happens after a successful checkout.
func (s *Service) Clear(c context.Context, ownerUID string, role string) error {
	_, err := s.modify(c, ownerUID, role, func(cart *Cart) error {
		cart.Items = map[Key]Item{}
		return nil
	})
	return err
}

func (s *Service) modify(c context.Context, ownerUID string, role string, f func(cart *Cart) error) (Cart, error) {
	if ownerUID == "" {
		return Cart{}, myerrors.NewAuthenticationError(ErrOwnerMissing)
	}

	s.Lock()
	defer s.Unlock()

	runInTransaction := func(c context.Context, f func(c context.Context) error) error {
		return f(c)
	}
	if ShouldPersist(role) {
		runInTransaction = s.durable.RunInTransaction
	}

	var result Cart
	err := runInTransaction(c, func(c context.Context) error {
		cart, err := s.storage.load(c, ownerUID, role)
		if err != nil {
			return myerrors.NewInternalError(err)
		}

		err = f(&cart)
		if err != nil {
			return err
		}
		cart.LastModified = s.nower.Now()

		err = s.storage.save(c, cart, role)
		if err != nil {
			return myerrors.NewInternalError(err)
		}
		result = cart
		return nil
	})
	if err != nil {
		return Cart{}, err
	}

	return result, nil
}
