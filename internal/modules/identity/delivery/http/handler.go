package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	identityDto "github.com/tr33-app/tr33-backend/internal/modules/identity/dto"
	identityService "github.com/tr33-app/tr33-backend/internal/modules/identity/service"
	"github.com/tr33-app/tr33-backend/pkg/response"
	"github.com/tr33-app/tr33-backend/pkg/validator"
)

type IdentityHandler struct {
	service identityService.IdentityService
}

func NewIdentityHandler(service identityService.IdentityService) *IdentityHandler {
	return &IdentityHandler{service: service}
}

func (h *IdentityHandler) Register(c *gin.Context) {
	var input identityDto.NicknameInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	session, err := h.service.Register(c.Request.Context(), input)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, session)
}

func (h *IdentityHandler) Login(c *gin.Context) {
	var input identityDto.NicknameInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	session, err := h.service.Login(c.Request.Context(), input)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}
