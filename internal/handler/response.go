package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"go-role-auth/internal/model"
	"go-role-auth/internal/repository"
	"go-role-auth/pkg/apierror"
)

func writeJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	render.Status(r, status)
	render.JSON(w, r, data)
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	body := model.ErrorResponse{
		Code:    "INTERNAL_ERROR",
		Message: "Unexpected server error",
	}

	var apiErr *apierror.APIError
	var policyErr *repository.PolicyError
	if errors.As(err, &apiErr) {
		status = apiErr.HTTPStatus
		body.Code = apiErr.Code
		body.Message = apiErr.Message
		body.Errors = apiErr.Details
	} else if errors.As(err, &policyErr) {
		status = http.StatusBadRequest
		body.Code = apierror.CodeStore
		body.Message = "password does not satisfy the policy"
		body.Errors = policyErr.Descriptions
	} else if errors.Is(err, model.ErrUserNotFound) {
		status = http.StatusNotFound
		body.Code = apierror.CodeNotFound
		body.Message = "User not found"
	} else if errors.Is(err, model.ErrRoleNotFound) {
		status = http.StatusNotFound
		body.Code = apierror.CodeNotFound
		body.Message = "Role not found"
	} else if errors.Is(err, model.ErrDuplicateEmail) {
		status = http.StatusBadRequest
		body.Code = apierror.CodeConflict
		body.Message = "Email is already taken"
	} else if errors.Is(err, model.ErrDuplicateRoleName) {
		status = http.StatusBadRequest
		body.Code = apierror.CodeConflict
		body.Message = "Rol zaten mevcut"
	} else if errors.Is(err, model.ErrInvalidToken) || errors.Is(err, model.ErrUnauthorized) {
		status = http.StatusUnauthorized
		body.Code = apierror.CodeUnauthorized
		body.Message = "Authentication required"
	} else {
		// Log unclassified errors so they are visible in container logs.
		slog.Error("unhandled error in writeError", "path", r.URL.Path, "error", err.Error())
	}

	writeJSON(w, r, status, body)
}

func decodeJSON(r *http.Request, dst any) error {
	defer r.Body.Close()

	if err := render.DecodeJSON(r.Body, dst); err != nil {
		return apierror.Validation("invalid JSON body", err.Error())
	}
	return nil
}
