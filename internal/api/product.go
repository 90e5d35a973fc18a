package api

import (
	"net/http"

	"github.com/go-faster/errors"

	"github.com/solkim/tracksuit-store/internal/domain/catalog"
)

// productView is the catalog item shape served to the storefront client.
type productView struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Category    string   `json:"category"`
	Image       string   `json:"image"`
	Description string   `json:"description,omitempty"`
	Price       float64  `json:"price"`
	Sizes       []string `json:"sizes"`
}

// ListProducts returns the whole catalog.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	products, err := h.products.List(ctx)
	if err != nil {
		writeError(ctx, w, errors.Wrap(err, "list products"))
		return
	}

	out := make([]productView, len(products))
	for i, p := range products {
		out[i] = toProductView(p)
	}
	writeJSON(ctx, w, http.StatusOK, out)
}

// GetProduct returns a single product by id.
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	p, err := h.products.GetByID(ctx, r.PathValue("id"))
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			writeJSON(ctx, w, http.StatusNotFound, errorResponse{Error: "product not found"})
			return
		}
		writeError(ctx, w, errors.Wrap(err, "get product"))
		return
	}

	writeJSON(ctx, w, http.StatusOK, toProductView(*p))
}

func toProductView(p catalog.Product) productView {
	return productView{
		ID:          p.ID,
		Name:        p.Name,
		Category:    string(p.Category),
		Image:       p.Image,
		Description: p.Description,
		Price:       p.Price.InexactFloat64(),
		Sizes:       p.Sizes,
	}
}
