package handler

import (
	"net/http"
	"time"

	"softwire/internal/microservices/http-api/dto"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	now func() time.Time
}

func NewHealthHandler(now func() time.Time) *HealthHandler {
	if now == nil {
		now = time.Now
	}
	return &HealthHandler{now: now}
}

func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, dto.HealthResponse{
		Success:   true,
		Message:   "SoftWire India API is running",
		Timestamp: h.now().UTC().Format(time.RFC3339),
	})
}
