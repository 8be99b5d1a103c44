package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/aled/logistics-sandbox/internal/api/middleware"
	"github.com/aled/logistics-sandbox/internal/domain"
	"github.com/aled/logistics-sandbox/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type DemoHandler struct {
	demos *service.DemoService
	log   zerolog.Logger
}

func NewDemoHandler(demos *service.DemoService, log zerolog.Logger) *DemoHandler {
	return &DemoHandler{demos: demos, log: log.With().Str("handler", "demos").Logger()}
}

type CreateUserRequest struct {
	RetailerID string `json:"retailerId"`
}

type LoginRequest struct {
	UserID string `json:"userId"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

func (h *DemoHandler) Create(w http.ResponseWriter, r *http.Request) {
	demo, err := h.demos.CreateDemo(r.Context())
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, demo)
}

func (h *DemoHandler) Get(w http.ResponseWriter, r *http.Request) {
	demo, err := h.demos.GetDemo(r.Context(), chi.URLParam(r, "guid"))
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, demo)
}

func (h *DemoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.demos.DeleteDemo(r.Context(), chi.URLParam(r, "guid")); err != nil {
		respondError(w, h.log, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *DemoHandler) GetRetailers(w http.ResponseWriter, r *http.Request) {
	retailers, err := h.demos.GetDemoRetailers(r.Context(), chi.URLParam(r, "guid"))
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, retailers)
}

func (h *DemoHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.demos.CreateDemoUser(r.Context(), chi.URLParam(r, "guid"), req.RetailerID)
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

func (h *DemoHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.UserID == "" {
		respondError(w, h.log, domain.ErrUnprocessableEntity)
		return
	}
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		respondError(w, h.log, domain.ErrUnprocessableEntity)
		return
	}

	tok, err := h.demos.Login(r.Context(), chi.URLParam(r, "guid"), userID)
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.CookieName,
		Value:    tok,
		HttpOnly: true,
		Path:     "/",
	})
	writeJSON(w, http.StatusOK, LoginResponse{Token: tok})
}

func (h *DemoHandler) Logout(w http.ResponseWriter, r *http.Request) {
	raw, _ := middleware.GetRawToken(r.Context())

	if err := h.demos.Logout(r.Context(), raw, chi.URLParam(r, "token")); err != nil {
		respondError(w, h.log, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
