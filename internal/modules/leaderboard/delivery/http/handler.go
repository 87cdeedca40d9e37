package http

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	leaderboardService "github.com/tr33-app/tr33-backend/internal/modules/leaderboard/service"
	"github.com/tr33-app/tr33-backend/pkg/response"
)

type LeaderboardHandler struct {
	service leaderboardService.LeaderboardService
}

func NewLeaderboardHandler(service leaderboardService.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{service: service}
}

func (h *LeaderboardHandler) GetLeaderboard(c *gin.Context) {
	// Identity is optional here: anonymous fetches still render, just
	// without a highlighted row.
	nickname := response.GetNickname(c)

	leaderboard, err := h.service.GetLeaderboard(c.Request.Context(), nickname)
	if err != nil {
		log.Printf("Failed to fetch leaderboard: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch leaderboard"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": leaderboard})
}
