package handler

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jinzhu/copier"

	"go-role-auth/internal/model"
	"go-role-auth/internal/service"
)

type RoleHandler struct {
	service *service.RoleService
}

func NewRoleHandler(service *service.RoleService) *RoleHandler {
	return &RoleHandler{service: service}
}

// CreateRole answers with a bare JSON string on success.
func (h *RoleHandler) CreateRole(w http.ResponseWriter, r *http.Request) {
	var payload model.CreateRoleRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, r, err)
		return
	}

	msg, err := h.service.CreateRole(r.Context(), payload.RoleName)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, msg)
}

func (h *RoleHandler) ListRoles(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.service.ListRoles(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	roles := make([]model.RoleResponse, 0, len(summaries))
	if err := copier.Copy(&roles, &summaries); err != nil {
		writeError(w, r, fmt.Errorf("map roles: %w", err))
		return
	}

	writeJSON(w, r, http.StatusOK, roles)
}

func (h *RoleHandler) DeleteRole(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.DeleteRole(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, resp)
}

func (h *RoleHandler) AssignRole(w http.ResponseWriter, r *http.Request) {
	var payload model.AssignRoleRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, r, err)
		return
	}

	resp, err := h.service.AssignRole(r.Context(), payload)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, resp)
}
