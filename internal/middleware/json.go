package middleware

import (
	"net/http"

	"github.com/go-chi/render"

	"go-role-auth/internal/model"
)

func writeError(w http.ResponseWriter, r *http.Request, status int, code string, message string) {
	render.Status(r, status)
	render.JSON(w, r, model.ErrorResponse{
		IsSuccess: false,
		Code:      code,
		Message:   message,
	})
}
