package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"reflect"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/MarcGrol/travelshop/lib/mycontext"
	"github.com/MarcGrol/travelshop/lib/myerrors"
	"github.com/MarcGrol/travelshop/lib/myhttp"
	"github.com/MarcGrol/travelshop/lib/mylog"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	// validate money as a number
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

type AddItemRequest struct {
	ProductID string          `json:"productId" validate:"required,max=64"`
	Type      ItemType        `json:"type" validate:"required,oneof=product tour"`
	Name      string          `json:"name" validate:"max=256"`
	Quantity  int             `json:"quantity" validate:"required,gt=0,lte=99"`
	Price     decimal.Decimal `json:"price" validate:"gte=0"`
}

type UpdateQuantityRequest struct {
	// Quantity of zero or less removes the item
	Quantity *int `json:"quantity" validate:"required"`
}

type CartResponse struct {
	OwnerUID     string     `json:"ownerUid"`
	Persistent   bool       `json:"persistent"`
	Items        []Item     `json:"items"`
	Totals       Totals     `json:"totals"`
	LastModified *time.Time `json:"lastModified,omitempty"`
}

type webService struct {
	logger  mylog.Logger
	service *Service
}

// Use dependency injection to isolate the infrastructure and easy testing
func NewWebService(service *Service) *webService {
	return &webService{
		logger:  service.logger,
		service: service,
	}
}

func (s *webService) RegisterEndpoints(c context.Context, router *mux.Router) error {
	router.HandleFunc("/api/cart", s.getCart()).Methods("GET")
	router.HandleFunc("/api/cart", s.clearCart()).Methods("DELETE")
	router.HandleFunc("/api/cart/items", s.addItem()).Methods("POST")
	router.HandleFunc("/api/cart/items/{type}/{productID}", s.updateQuantity()).Methods("PUT")
	router.HandleFunc("/api/cart/items/{type}/{productID}", s.removeItem()).Methods("DELETE")

	return nil
}

func (s *webService) getCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)
		identity := myhttp.IdentityFromRequest(r)

		cart, err := s.service.Get(c, identity.UID, identity.Role)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, toCartResponse(cart, identity.Role))
	}
}

func (s *webService) addItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)
		identity := myhttp.IdentityFromRequest(r)

		req := AddItemRequest{}
		err := decodeAndValidate(r, &req)
		if err != nil {
			errorWriter.WriteError(c, w, 2, err)
			return
		}

		cart, err := s.service.AddItem(c, identity.UID, identity.Role, Item{
			ProductID: req.ProductID,
			Type:      req.Type,
			Name:      req.Name,
			Quantity:  req.Quantity,
			Price:     req.Price,
		})
		if err != nil {
			errorWriter.WriteError(c, w, 3, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, toCartResponse(cart, identity.Role))
	}
}

func (s *webService) updateQuantity() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)
		identity := myhttp.IdentityFromRequest(r)

		key, err := keyFromPath(r)
		if err != nil {
			errorWriter.WriteError(c, w, 4, err)
			return
		}

		req := UpdateQuantityRequest{}
		err = decodeAndValidate(r, &req)
		if err != nil {
			errorWriter.WriteError(c, w, 5, err)
			return
		}

		cart, err := s.service.UpdateQuantity(c, identity.UID, identity.Role, key, *req.Quantity)
		if err != nil {
			errorWriter.WriteError(c, w, 6, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, toCartResponse(cart, identity.Role))
	}
}

func (s *webService) removeItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)
		identity := myhttp.IdentityFromRequest(r)

		key, err := keyFromPath(r)
		if err != nil {
			errorWriter.WriteError(c, w, 7, err)
			return
		}

		cart, err := s.service.RemoveItem(c, identity.UID, identity.Role, key)
		if err != nil {
			errorWriter.WriteError(c, w, 8, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, toCartResponse(cart, identity.Role))
	}
}

func (s *webService) clearCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)
		identity := myhttp.IdentityFromRequest(r)

		err := s.service.Clear(c, identity.UID, identity.Role)
		if err != nil {
			errorWriter.WriteError(c, w, 9, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, myhttp.SuccessResponse{
			Message: "Cart cleared",
		})
	}
}

func decodeAndValidate(r *http.Request, req interface{}) error {
	err := json.NewDecoder(r.Body).Decode(req)
	if err != nil {
		return myerrors.NewInvalidInputError(fmt.Errorf("error parsing request body: %w", err))
	}

	err = validate.Struct(req)
	if err != nil {
		return myerrors.NewInvalidInputError(err)
	}
	return nil
}

func keyFromPath(r *http.Request) (Key, error) {
	vars := mux.Vars(r)
	key := Key{
		ProductID: vars["productID"],
		Type:      ItemType(vars["type"]),
	}
	if !key.Type.Valid() || key.ProductID == "" {
		return Key{}, myerrors.NewInvalidInputErrorf("invalid cart item %s/%s", vars["type"], vars["productID"])
	}
	return key, nil
}

func toCartResponse(cart Cart, role string) CartResponse {
	resp := CartResponse{
		OwnerUID:   cart.OwnerUID,
		Persistent: ShouldPersist(role),
		Items:      cart.SortedItems(),
		Totals:     ComputeTotals(cart.Items),
	}
	if !cart.LastModified.IsZero() {
		resp.LastModified = &cart.LastModified
	}
	return resp
}
