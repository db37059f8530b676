package response

import (
	"math"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Envelope is the uniform success body. Lists carry Meta.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Meta    *Meta       `json:"meta,omitempty"`
}

type Meta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

func OK(ctx *gin.Context, data interface{}, message string) {
	ctx.JSON(http.StatusOK, Envelope{
		Success: true,
		Data:    data,
		Message: message,
	})
}

func Created(ctx *gin.Context, data interface{}, message string) {
	ctx.JSON(http.StatusCreated, Envelope{
		Success: true,
		Data:    data,
		Message: message,
	})
}

func Paginated(ctx *gin.Context, data interface{}, page, limit int, total int64) {
	totalPages := 0
	if limit > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(limit)))
	}

	ctx.JSON(http.StatusOK, Envelope{
		Success: true,
		Data:    data,
		Meta: &Meta{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: totalPages,
		},
	})
}
