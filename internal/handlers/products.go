// internal/handlers/products.go
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mfriesen/barstock-be/internal/adapters/storage"
	"github.com/mfriesen/barstock-be/internal/core/domain"
	"github.com/mfriesen/barstock-be/internal/core/ports"
)

// ProductsHandler handles product-related HTTP requests
type ProductsHandler struct {
	products     ports.ProductStore
	storage      storage.StorageClient
	logger       *slog.Logger
	maxImageSize int64
}

// NewProductsHandler creates a new products handler
func NewProductsHandler(products ports.ProductStore, storageClient storage.StorageClient,
	maxImageSize int64, logger *slog.Logger) *ProductsHandler {
	return &ProductsHandler{
		products:     products,
		storage:      storageClient,
		logger:       logger.With(slog.String("handler", "products")),
		maxImageSize: maxImageSize,
	}
}

// GetProduct handles GET /api/v1/products/{id}
func (h *ProductsHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue("id")

	product, err := h.products.GetByID(ctx, id)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to get product",
			slog.String("product_id", id),
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to retrieve product")
		return
	}
	if product == nil {
		h.respondError(w, http.StatusNotFound, "Product not found")
		return
	}

	h.respondJSON(w, http.StatusOK, product)
}

// ListProducts handles GET /api/v1/products
func (h *ProductsHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	params := ports.ProductListParams{
		Category: r.URL.Query().Get("category"),
		Supplier: r.URL.Query().Get("supplier"),
		Search:   r.URL.Query().Get("search"),
		SortBy:   r.URL.Query().Get("sort"),
	}

	products, err := h.products.List(ctx, params)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list products",
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to list products")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"products": products,
		"count":    len(products),
	})
}

// CreateProduct handles POST /api/v1/products
func (h *ProductsHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	product := req.ToDomain()
	if err := product.Validate(); err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.products.Save(ctx, product); err != nil {
		h.logger.ErrorContext(ctx, "failed to create product",
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to create product")
		return
	}

	h.respondJSON(w, http.StatusCreated, product)
}

// UpdateProduct handles PUT /api/v1/products/{id}
func (h *ProductsHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue("id")

	var req ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	product := req.ToDomain()
	product.ID = id
	if err := product.Validate(); err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.products.Save(ctx, product); err != nil {
		h.logger.ErrorContext(ctx, "failed to update product",
			slog.String("product_id", id),
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to update product")
		return
	}

	h.respondJSON(w, http.StatusOK, product)
}

// DeleteProduct handles DELETE /api/v1/products/{id}
func (h *ProductsHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue("id")

	if err := h.products.Delete(ctx, id); err != nil {
		h.logger.ErrorContext(ctx, "failed to delete product",
			slog.String("product_id", id),
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to delete product")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]string{
		"message":    "Product deleted successfully",
		"product_id": id,
	})
}

// UploadImage handles POST /api/v1/products/{id}/image
func (h *ProductsHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue("id")

	product, err := h.products.GetByID(ctx, id)
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, "Failed to retrieve product")
		return
	}
	if product == nil {
		h.respondError(w, http.StatusNotFound, "Product not found")
		return
	}

	if err := r.ParseMultipartForm(h.maxImageSize); err != nil {
		h.respondError(w, http.StatusBadRequest, "Failed to parse form data")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Image file is required")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		h.respondError(w, http.StatusBadRequest, "Only image files are allowed")
		return
	}

	key := storage.ProductImageKey(id, header.Filename)
	url, err := h.storage.Upload(ctx, key, file, contentType)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to upload product image",
			slog.String("product_id", id),
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to upload image")
		return
	}

	product.ImageURL = url
	if err := h.products.Save(ctx, product); err != nil {
		h.logger.ErrorContext(ctx, "failed to save product image url",
			slog.String("product_id", id),
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to save product")
		return
	}

	h.logger.InfoContext(ctx, "product image uploaded",
		slog.String("product_id", id),
		slog.String("key", key))

	h.respondJSON(w, http.StatusOK, map[string]string{
		"product_id": id,
		"imageUrl":   url,
	})
}

// Helper methods

func (h *ProductsHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode JSON response",
			slog.String("error", err.Error()))
	}
}

func (h *ProductsHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}

// ProductRequest represents the request body for creating or updating a product
type ProductRequest struct {
	ID             string           `json:"id,omitempty"`
	Name           string           `json:"name"`
	Category       string           `json:"category,omitempty"`
	Volume         float64          `json:"volume"`
	PricePerBottle decimal.Decimal  `json:"pricePerBottle"`
	ItemsPerCrate  *int             `json:"itemsPerCrate,omitempty"`
	PricePer100ml  *decimal.Decimal `json:"pricePer100ml,omitempty"`
	Supplier       string           `json:"supplier,omitempty"`
	ImageURL       string           `json:"imageUrl,omitempty"`
	Notes          string           `json:"notes,omitempty"`
}

// ToDomain converts the request to a domain model
func (r *ProductRequest) ToDomain() *domain.Product {
	return &domain.Product{
		ID:             r.ID,
		Name:           r.Name,
		Category:       domain.ProductCategory(r.Category),
		Volume:         r.Volume,
		PricePerBottle: r.PricePerBottle,
		ItemsPerCrate:  r.ItemsPerCrate,
		PricePer100ml:  r.PricePer100ml,
		Supplier:       r.Supplier,
		ImageURL:       r.ImageURL,
		Notes:          r.Notes,
	}
}
