package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	factService "github.com/tr33-app/tr33-backend/internal/modules/fact/service"
	"github.com/tr33-app/tr33-backend/pkg/response"
	"github.com/tr33-app/tr33-backend/pkg/validator"
)

type FactHandler struct {
	service factService.FactService
}

func NewFactHandler(service factService.FactService) *FactHandler {
	return &FactHandler{service: service}
}

type funFactInput struct {
	TreeName string `json:"tree_name" binding:"required"`
}

// FunFact mirrors the old serverless endpoint: JSON in, one fact out.
// Provider failures still answer 200 with a fallback string, so the
// result screen is never blocked on enrichment.
func (h *FactHandler) FunFact(c *gin.Context) {
	var input funFactInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	fact, err := h.service.FunFact(c.Request.Context(), input.TreeName)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"fun_fact": fact})
}
