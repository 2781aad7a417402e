package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ylbabygo/xuekework/internal/middleware"
)

// apiResponse is the envelope every endpoint returns. success=false implies
// data is absent. Failures carry the request id so users can quote it when
// reporting a problem.
type apiResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message,omitempty"`
	Data      any    `json:"data,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

func ok(c *gin.Context, data any) {
	c.JSON(http.StatusOK, apiResponse{Success: true, Data: data})
}

func okMessage(c *gin.Context, message string) {
	c.JSON(http.StatusOK, apiResponse{Success: true, Message: message})
}

func fail(c *gin.Context, status int, message string) {
	c.JSON(status, apiResponse{
		Success:   false,
		Message:   message,
		RequestID: middleware.RequestIDFrom(c),
	})
}

// pageParams reads page/limit query values with the defaults the frontend
// sends. limit is capped to keep list queries bounded.
func pageParams(c *gin.Context) (limit int, offset int) {
	limit = 20
	page := 1

	if raw := c.Query("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 && v <= 100 {
			limit = v
		}
	}
	if raw := c.Query("page"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 1 {
			page = v
		}
	}

	return limit, (page - 1) * limit
}
