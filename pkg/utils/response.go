// en pkg/utils/response.go
package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorResponse define la estructura estándar para las respuestas de error.
type ErrorResponse struct {
	Message string `json:"message"`
}

// FieldError es un error de validación de un campo concreto.
type FieldError struct {
	Field string `json:"field,omitempty"`
	Msg   string `json:"msg"`
}

// Pagination acompaña a las respuestas paginadas.
type Pagination struct {
	Total       int `json:"total"`
	CurrentPage int `json:"currentPage"`
}

// SendSuccess envía una respuesta exitosa con un payload de datos.
func SendSuccess(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, gin.H{
		"data": data,
	})
}

// SendPage envía {data, pagination}. Con pagination nil se omite la clave.
func SendPage(c *gin.Context, data interface{}, pagination *Pagination) {
	body := gin.H{"data": data}
	if pagination != nil {
		body["pagination"] = pagination
	}
	c.JSON(http.StatusOK, body)
}

// SendError envía una respuesta de error con un formato estandarizado.
func SendError(c *gin.Context, statusCode int, message string) {
	c.AbortWithStatusJSON(statusCode, gin.H{
		"error": ErrorResponse{
			Message: message,
		},
	})
}

// SendValidationErrors envía la lista de errores de validación.
func SendValidationErrors(c *gin.Context, errs []FieldError) {
	c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{
		"errors": errs,
	})
}

// --- Helpers específicos para errores comunes ---

func SendBadRequest(c *gin.Context, message string) {
	SendError(c, http.StatusBadRequest, message)
}

func SendForbidden(c *gin.Context, message string) {
	SendError(c, http.StatusForbidden, message)
}

func SendNotFound(c *gin.Context, message string) {
	SendError(c, http.StatusNotFound, message)
}

func SendInternalServerError(c *gin.Context, message string) {
	SendError(c, http.StatusInternalServerError, message)
}
