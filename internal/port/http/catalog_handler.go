package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/domain/entity"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type addProductRequest struct {
	Title       string          `json:"title" validate:"required,max=120"`
	Description string          `json:"description" validate:"max=2000"`
	Price       decimal.Decimal `json:"price"`
	Condition   string          `json:"condition" validate:"required"`
	Quantity    int             `json:"quantity" validate:"required,gt=0"`
	Images      []string        `json:"images" validate:"omitempty,dive,url"`
	Category    string          `json:"category"`
	Brand       string          `json:"brand"`
}

type offerRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

type descriptionRequest struct {
	Keywords string `json:"keywords" validate:"required,max=500"`
}

type shopResponse struct {
	*entity.Shop
	Products []entity.Product `json:"products"`
}

func (h *Handler) HandleListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.ListAvailableProducts(r.Context())
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func (h *Handler) HandleGetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.catalog.GetProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

// resolveShop accepts a shop ID or its URL slug.
func (h *Handler) resolveShop(r *http.Request) (*entity.Shop, error) {
	ref := chi.URLParam(r, "id")
	shop, err := h.catalog.GetShop(r.Context(), ref)
	if errors.Is(err, entity.ErrNotFound) {
		return h.catalog.GetShopBySlug(r.Context(), ref)
	}
	return shop, err
}

func (h *Handler) HandleGetShop(w http.ResponseWriter, r *http.Request) {
	shop, err := h.resolveShop(r)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	products, err := h.catalog.ListShopProducts(r.Context(), shop.ID, true)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, shopResponse{Shop: shop, Products: products})
}

func (h *Handler) HandleListShopProducts(w http.ResponseWriter, r *http.Request) {
	shop, err := h.resolveShop(r)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	products, err := h.catalog.ListShopProducts(r.Context(), shop.ID, r.URL.Query().Get("all") != "true")
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func (h *Handler) HandleMakeOffer(w http.ResponseWriter, r *http.Request) {
	var req offerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.log, err)
		return
	}
	offer, err := h.catalog.MakeOffer(r.Context(), chi.URLParam(r, "id"), req.Amount)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, offer)
}

func (h *Handler) HandleAddProduct(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFromContext(r.Context())
	if claims.ShopID == "" {
		writeError(w, h.log, fmt.Errorf("%w: only sellers can list products", entity.ErrUnauthorized))
		return
	}

	var req addProductRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.log, err)
		return
	}

	product, err := h.catalog.AddProduct(r.Context(), service.AddProductParams{
		ShopID:      claims.ShopID,
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Condition:   req.Condition,
		Quantity:    req.Quantity,
		Images:      req.Images,
		Category:    req.Category,
		Brand:       req.Brand,
	})
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, product)
}

func (h *Handler) HandleUploadImage(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFromContext(r.Context())
	productID := chi.URLParam(r, "id")

	product, err := h.catalog.GetProduct(r.Context(), productID)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	if claims.ShopID == "" || product.ShopID != claims.ShopID {
		writeError(w, h.log, fmt.Errorf("%w: product %s belongs to another shop", entity.ErrUnauthorized, productID))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxImageSize)
	if err := r.ParseMultipartForm(h.maxImageSize); err != nil {
		writeError(w, h.log, fmt.Errorf("%w: failed to parse multipart form: %v", errBadRequest, err))
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, h.log, fmt.Errorf("%w: image file is required", errBadRequest))
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	url, err := h.catalog.UploadProductImage(r.Context(), productID, header.Filename, file, header.Size, contentType)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"url": url})
}

// HandleGenerateDescription always answers 200: failures come back as a
// user-facing fallback text.
func (h *Handler) HandleGenerateDescription(w http.ResponseWriter, r *http.Request) {
	var req descriptionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"description": h.descriptions.GenerateDescription(r.Context(), req.Keywords),
	})
}

func (h *Handler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFromContext(r.Context())
	dashboard, err := h.catalog.SellerDashboard(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, dashboard)
}
