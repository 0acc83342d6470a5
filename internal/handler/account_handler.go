package handler

import (
	"net/http"

	"go-role-auth/internal/middleware"
	"go-role-auth/internal/model"
	"go-role-auth/internal/service"
)

type AccountHandler struct {
	service *service.AuthService
}

func NewAccountHandler(service *service.AuthService) *AccountHandler {
	return &AccountHandler{service: service}
}

func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload model.RegisterRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, r, err)
		return
	}

	resp, err := h.service.Register(r.Context(), payload)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, resp)
}

func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload model.LoginRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, r, err)
		return
	}

	resp, err := h.service.Login(r.Context(), payload)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, resp)
}

func (h *AccountHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims, _ := middleware.ClaimsFromContext(r.Context())

	me, err := h.service.Me(claims)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, me)
}
