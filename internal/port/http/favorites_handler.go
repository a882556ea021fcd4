package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

type toggleResponse struct {
	ProductID string `json:"product_id"`
	Favorited bool   `json:"favorited"`
	Confirmed *bool  `json:"confirmed,omitempty"`
}

func (h *Handler) HandleListFavorites(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFromContext(r.Context())
	ids, err := h.favorites.ListFavorites(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"favorites": ids})
}

// HandleToggleFavorite answers with the optimistic state. With ?wait=true it
// waits for the store and reports the reconciled state instead.
func (h *Handler) HandleToggleFavorite(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFromContext(r.Context())
	productID := chi.URLParam(r, "productID")

	res, err := h.favorites.ToggleFavorite(r.Context(), claims.UserID, productID)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	if r.URL.Query().Get("wait") != "true" {
		writeJSON(w, http.StatusAccepted, toggleResponse{ProductID: productID, Favorited: res.Favorited})
		return
	}

	select {
	case rec := <-res.Reconciled:
		if rec.Err != nil {
			writeError(w, h.log, rec.Err)
			return
		}
		confirmed := rec.Confirmed
		writeJSON(w, http.StatusOK, toggleResponse{ProductID: productID, Favorited: rec.Favorited, Confirmed: &confirmed})
	case <-r.Context().Done():
		// The reconciliation keeps running and settles on its own.
	}
}
