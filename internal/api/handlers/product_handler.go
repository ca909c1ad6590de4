package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/trendmart/storefront/internal/images"
	"github.com/trendmart/storefront/internal/models"
	"github.com/trendmart/storefront/internal/repository"
)

const maxImageUploadBytes = 10 << 20

type ProductHandler struct {
	products *repository.ProductRepo
	images   *images.Store
}

func NewProductHandler(productRepo *repository.ProductRepo, imageStore *images.Store) *ProductHandler {
	return &ProductHandler{products: productRepo, images: imageStore}
}

// List handles GET /products?limit=&offset=
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 20)
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset := queryInt(r, "offset", 0)
	if offset < 0 {
		offset = 0
	}

	products, total, err := h.products.List(r.Context(), limit, offset)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"products": products,
		"total":    total,
	})
}

// Get handles GET /products/{productID}
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.products.GetByID(r.Context(), chi.URLParam(r, "productID"))
	if err != nil {
		h.writeProductError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// ServeImage handles GET /images/products/{productID}. Missing or broken
// images fall back to the placeholder.
func (h *ProductHandler) ServeImage(w http.ResponseWriter, r *http.Request) {
	h.images.ServeProduct(w, r, chi.URLParam(r, "productID"))
}

type productRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
}

// Create handles POST /admin/products
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body")
		return
	}
	if req.Name == "" || req.Price.LessThan(decimal.Zero) {
		writeError(w, http.StatusBadRequest, "name and non-negative price required")
		return
	}

	p := &models.Product{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Price:       req.Price,
		Stock:       req.Stock,
	}
	if err := h.products.Create(r.Context(), p); err != nil {
		writeError(w, http.StatusInternalServerError, "failed_create_product")
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// Update handles PUT /admin/products/{productID}
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body")
		return
	}

	p := &models.Product{
		ID:          chi.URLParam(r, "productID"),
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Price:       req.Price,
		Stock:       req.Stock,
	}
	if err := h.products.Update(r.Context(), p); err != nil {
		h.writeProductError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// Delete handles DELETE /admin/products/{productID}
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "productID")
	if err := h.products.Delete(r.Context(), id); err != nil {
		h.writeProductError(w, err)
		return
	}
	_ = h.images.Remove(id)
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// UploadImage handles POST /admin/products/{productID}/image with a multipart
// "image" field. The stored URL carries a timestamp so stale cached copies
// are bypassed after re-upload.
func (h *ProductHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "productID")
	if _, err := h.products.GetByID(r.Context(), id); err != nil {
		h.writeProductError(w, err)
		return
	}

	if err := r.ParseMultipartForm(maxImageUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_multipart_body")
		return
	}
	file, _, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, "image field required")
		return
	}
	defer file.Close()

	url, err := h.images.Save(id, file)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed_store_image")
		return
	}
	if err := h.products.UpdateImageURL(r.Context(), id, url); err != nil {
		h.writeProductError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"imageUrl": url})
}

func (h *ProductHandler) writeProductError(w http.ResponseWriter, err error) {
	if errors.Is(err, repository.ErrProductNotFound) {
		writeError(w, http.StatusNotFound, "product_not_found")
		return
	}
	writeError(w, http.StatusInternalServerError, "internal_error")
}
