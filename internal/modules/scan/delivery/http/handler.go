package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	scanService "github.com/tr33-app/tr33-backend/internal/modules/scan/service"
	search "github.com/tr33-app/tr33-backend/internal/modules/search/service"
	"github.com/tr33-app/tr33-backend/pkg/response"
)

type ScanHandler struct {
	service       scanService.ScanService
	searchService search.ScanSearchService
}

func NewScanHandler(service scanService.ScanService, searchService search.ScanSearchService) *ScanHandler {
	return &ScanHandler{
		service:       service,
		searchService: searchService,
	}
}

// Identify accepts one captured image as multipart form data and
// returns the top-ranked match plus a scan_id for the commit call.
func (h *ScanHandler) Identify(c *gin.Context) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image is required"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read image"})
		return
	}
	defer file.Close()

	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	result, err := h.service.Identify(c.Request.Context(), userID, file, fileHeader.Filename)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *ScanHandler) Commit(c *gin.Context) {
	scanID := c.Param("scan_id")
	if scanID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "scan_id is required"})
		return
	}

	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	result, err := h.service.Commit(c.Request.Context(), userID, response.GetNickname(c), scanID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

func (h *ScanHandler) MyCollection(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	collection, err := h.service.MyCollection(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, collection)
}

func (h *ScanHandler) Search(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "q is required"})
		return
	}

	if h.searchService == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "search is not configured"})
		return
	}

	docs, err := h.searchService.Search(query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "search failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": docs})
}
