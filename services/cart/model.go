package cart

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

type ItemType string

const (
	ItemTypeProduct ItemType = "product"
	ItemTypeTour    ItemType = "tour"
)

func (t ItemType) Valid() bool {
	return t == ItemTypeProduct || t == ItemTypeTour
}

// Key identifies a cart line: the same product id can exist as product and as tour.
type Key struct {
	ProductID string
	Type      ItemType
}

type Item struct {
	ProductID string          `json:"productId"`
	Type      ItemType        `json:"type"`
	Name      string          `json:"name,omitempty"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

func (i Item) Key() Key {
	return Key{ProductID: i.ProductID, Type: i.Type}
}

func (i Item) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

type Cart struct {
	OwnerUID     string
	Items        map[Key]Item
	LastModified time.Time
}

func newCart(ownerUID string) Cart {
	return Cart{
		OwnerUID: ownerUID,
		Items:    map[Key]Item{},
	}
}

// SortedItems returns the lines in a stable order, tours before products.
func (c Cart) SortedItems() []Item {
	items := make([]Item, 0, len(c.Items))
	for _, item := range c.Items {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Type != items[j].Type {
			return items[i].Type > items[j].Type
		}
		return items[i].ProductID < items[j].ProductID
	})
	return items
}

type Totals struct {
	ItemCount int             `json:"itemCount"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

func ComputeTotals(items map[Key]Item) Totals {
	totals := Totals{
		Subtotal: decimal.Zero,
	}
	for _, item := range items {
		totals.ItemCount += item.Quantity
		totals.Subtotal = totals.Subtotal.Add(item.LineTotal())
	}
	return totals
}

// StoredCart is the persisted form: datastore has no map or decimal support.
type StoredCart struct {
	OwnerUID     string
	Items        []StoredItem
	LastModified time.Time
}

type StoredItem struct {
	ProductID string
	Type      string
	Name      string `datastore:",noindex"`
	Quantity  int
	Price     string `datastore:",noindex"`
}

func (c Cart) toStored() StoredCart {
	stored := StoredCart{
		OwnerUID:     c.OwnerUID,
		Items:        []StoredItem{},
		LastModified: c.LastModified,
	}
	for _, item := range c.SortedItems() {
		stored.Items = append(stored.Items, StoredItem{
			ProductID: item.ProductID,
			Type:      string(item.Type),
			Name:      item.Name,
			Quantity:  item.Quantity,
			Price:     item.Price.String(),
		})
	}
	return stored
}

func (s StoredCart) toCart() (Cart, error) {
	cart := newCart(s.OwnerUID)
	cart.LastModified = s.LastModified
	for _, stored := range s.Items {
		price, err := decimal.NewFromString(stored.Price)
		if err != nil {
			return Cart{}, err
		}
		item := Item{
			ProductID: stored.ProductID,
			Type:      ItemType(stored.Type),
			Name:      stored.Name,
			Quantity:  stored.Quantity,
			Price:     price,
		}
		cart.Items[item.Key()] = item
	}
	return cart, nil
}
