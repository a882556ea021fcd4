package http

import (
	"fmt"
	"net/http"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/domain/entity"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/service"
	"github.com/go-chi/chi/v5"
)

type createOrderRequest struct {
	ProductID       string `json:"product_id" validate:"required"`
	Quantity        int    `json:"quantity" validate:"required,gt=0"`
	ShippingAddress string `json:"shipping_address" validate:"required,max=500"`
}

type advanceStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// orderView is an order as seen by one of its parties.
type orderView struct {
	entity.Order
	Role             entity.ActorRole    `json:"role"`
	StatusTone       entity.StatusTone   `json:"status_tone"`
	AvailableActions []entity.Transition `json:"available_actions"`
}

func newOrderView(order *entity.Order, role entity.ActorRole) orderView {
	actions := order.AvailableActions(role)
	if actions == nil {
		actions = []entity.Transition{}
	}
	return orderView{
		Order:            *order,
		Role:             role,
		StatusTone:       order.Status.Tone(),
		AvailableActions: actions,
	}
}

func (h *Handler) HandleListOrders(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFromContext(r.Context())

	var (
		orders []entity.Order
		role   entity.ActorRole
	)
	switch view := r.URL.Query().Get("view"); view {
	case "", "buyer":
		role = entity.RoleBuyer
		orders = h.orders.ListOrdersForBuyer(r.Context(), claims.UserID)
	case "seller":
		if claims.ShopID == "" {
			writeError(w, h.log, fmt.Errorf("%w: user has no shop", entity.ErrUnauthorized))
			return
		}
		role = entity.RoleSeller
		orders = h.orders.ListOrdersForSeller(r.Context(), claims.ShopID)
	default:
		writeError(w, h.log, fmt.Errorf("%w: unknown view %q", errBadRequest, view))
		return
	}

	out := make([]orderView, 0, len(orders))
	for i := range orders {
		out = append(out, newOrderView(&orders[i], role))
	}
	writeJSON(w, http.StatusOK, out)
}

// partyOrder loads the order and the caller's role on it. Callers who are not
// a party get NotFound so order IDs do not leak.
func (h *Handler) partyOrder(r *http.Request) (*entity.Order, entity.ActorRole, error) {
	claims, _ := ClaimsFromContext(r.Context())
	orderID := chi.URLParam(r, "id")

	order, err := h.orders.GetOrder(r.Context(), orderID)
	if err != nil {
		return nil, "", err
	}
	role, ok := order.RoleOf(claims.UserID, claims.ShopID)
	if !ok {
		return nil, "", fmt.Errorf("%w: order %s", entity.ErrNotFound, orderID)
	}
	return order, role, nil
}

func (h *Handler) HandleGetOrder(w http.ResponseWriter, r *http.Request) {
	order, role, err := h.partyOrder(r)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, newOrderView(order, role))
}

func (h *Handler) HandleCreateOrder(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFromContext(r.Context())

	var req createOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.log, err)
		return
	}

	product, err := h.catalog.GetProduct(r.Context(), req.ProductID)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	if product.ShopID == claims.ShopID {
		writeError(w, h.log, fmt.Errorf("%w: sellers cannot buy their own listings", errBadRequest))
		return
	}

	order, err := h.orders.CreateOrder(r.Context(), service.CreateOrderParams{
		BuyerID:         claims.UserID,
		Product:         *product,
		SellerShopID:    product.ShopID,
		Quantity:        req.Quantity,
		ShippingFee:     h.shippingFee,
		ShippingAddress: req.ShippingAddress,
	})
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, newOrderView(order, entity.RoleBuyer))
}

func (h *Handler) HandleAdvanceStatus(w http.ResponseWriter, r *http.Request) {
	var req advanceStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.log, err)
		return
	}
	target, err := entity.ParseOrderStatus(req.Status)
	if err != nil {
		writeError(w, h.log, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}

	order, role, err := h.partyOrder(r)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	updated, err := h.orders.AdvanceStatus(r.Context(), order.ID, role, target)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, newOrderView(updated, role))
}
