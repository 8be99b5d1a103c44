package handlers

import (
	"net/http"

	"github.com/aled/logistics-sandbox/internal/api/middleware"
	"github.com/aled/logistics-sandbox/internal/domain"
	"github.com/aled/logistics-sandbox/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// ERPHandler serves the authenticated pass-through reads against the ERP
// backend.
type ERPHandler struct {
	erp *service.ERPService
	log zerolog.Logger
}

func NewERPHandler(erp *service.ERPService, log zerolog.Logger) *ERPHandler {
	return &ERPHandler{erp: erp, log: log.With().Str("handler", "erp").Logger()}
}

func (h *ERPHandler) Shipments(w http.ResponseWriter, r *http.Request) {
	tok, ok := middleware.GetToken(r.Context())
	if !ok {
		respondError(w, h.log, domain.ErrAuthenticationFailed)
		return
	}

	shipments, err := h.erp.Shipments(r.Context(), tok)
	if err != nil {
		respondError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, shipments)
}

func (h *ERPHandler) DistributionCenters(w http.ResponseWriter, r *http.Request) {
	tok, ok := middleware.GetToken(r.Context())
	if !ok {
		respondError(w, h.log, domain.ErrAuthenticationFailed)
		return
	}

	centers, err := h.erp.DistributionCenters(r.Context(), tok)
	if err != nil {
		respondError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, centers)
}

func (h *ERPHandler) Retailers(w http.ResponseWriter, r *http.Request) {
	tok, ok := middleware.GetToken(r.Context())
	if !ok {
		respondError(w, h.log, domain.ErrAuthenticationFailed)
		return
	}

	retailers, err := h.erp.Retailers(r.Context(), tok)
	if err != nil {
		respondError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, retailers)
}

func (h *ERPHandler) Retailer(w http.ResponseWriter, r *http.Request) {
	tok, ok := middleware.GetToken(r.Context())
	if !ok {
		respondError(w, h.log, domain.ErrAuthenticationFailed)
		return
	}

	retailer, err := h.erp.Retailer(r.Context(), tok, chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, retailer)
}

func (h *ERPHandler) RetailerInventory(w http.ResponseWriter, r *http.Request) {
	tok, ok := middleware.GetToken(r.Context())
	if !ok {
		respondError(w, h.log, domain.ErrAuthenticationFailed)
		return
	}

	items, err := h.erp.RetailerInventory(r.Context(), tok, chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *ERPHandler) Products(w http.ResponseWriter, r *http.Request) {
	tok, ok := middleware.GetToken(r.Context())
	if !ok {
		respondError(w, h.log, domain.ErrAuthenticationFailed)
		return
	}

	products, err := h.erp.Products(r.Context(), tok)
	if err != nil {
		respondError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}
