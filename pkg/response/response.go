package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/academic-records-api/internal/models"
	appErrors "github.com/noah-isme/academic-records-api/pkg/errors"
)

// Envelope is the common response contract for every endpoint.
type Envelope struct {
	Success    bool               `json:"success"`
	Message    string             `json:"message,omitempty"`
	Count      *int               `json:"count,omitempty"`
	Pagination *models.Pagination `json:"pagination,omitempty"`
	Data       any                `json:"data,omitempty"`
	Error      string             `json:"error,omitempty"`
	Details    any                `json:"details,omitempty"`
}

// List sends a paginated collection response.
func List(c *gin.Context, records []models.Record, pagination *models.Pagination) {
	count := len(records)
	c.JSON(http.StatusOK, Envelope{
		Success:    true,
		Count:      &count,
		Pagination: pagination,
		Data:       records,
	})
}

// JSON sends a single-item success response.
func JSON(c *gin.Context, status int, data any) {
	c.JSON(status, Envelope{Success: true, Data: data})
}

// Message sends a success response carrying a confirmation message.
func Message(c *gin.Context, status int, message string, data any) {
	c.JSON(status, Envelope{Success: true, Message: message, Data: data})
}

// Error converts any error to the envelope's failure shape. Internal detail
// stays server-side; only the taxonomy message and structured details are
// exposed.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	c.JSON(appErr.Status, Envelope{
		Success: false,
		Error:   appErr.Message,
		Details: appErr.Details,
	})
}
