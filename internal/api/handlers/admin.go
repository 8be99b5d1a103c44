package handlers

import (
	"net/http"

	"github.com/aled/logistics-sandbox/internal/api/middleware"
	"github.com/aled/logistics-sandbox/internal/domain"
	"github.com/aled/logistics-sandbox/internal/service"
	"github.com/rs/zerolog"
)

type AdminHandler struct {
	demos *service.DemoService
	log   zerolog.Logger
}

func NewAdminHandler(demos *service.DemoService, log zerolog.Logger) *AdminHandler {
	return &AdminHandler{demos: demos, log: log.With().Str("handler", "admin").Logger()}
}

// Load returns the consolidated admin view for the logged-in user.
func (h *AdminHandler) Load(w http.ResponseWriter, r *http.Request) {
	tok, ok := middleware.GetToken(r.Context())
	if !ok {
		respondError(w, h.log, domain.ErrAuthenticationFailed)
		return
	}

	data, err := h.demos.LoadAdminData(r.Context(), tok)
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, data)
}
