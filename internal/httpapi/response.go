package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kitbuilder587/news-digest/internal/domain"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

func writeError(c *gin.Context, status int, message string) {
	c.JSON(status, ErrorResponse{Error: message})
}

// statusFor сопоставляет типизированные ошибки с HTTP кодами.
func statusFor(err error) int {
	var (
		validationErr *domain.ValidationError
		notFoundErr   *domain.NotFoundError
	)

	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest
	case errors.As(err, &notFoundErr):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// handleError возвращает true если ошибка была записана в ответ.
func handleError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}
	writeError(c, statusFor(err), err.Error())
	return true
}
