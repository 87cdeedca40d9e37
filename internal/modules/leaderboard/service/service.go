package service

import (
	"context"

	"github.com/tr33-app/tr33-backend/internal/modules/leaderboard/dto"
	"github.com/tr33-app/tr33-backend/internal/modules/leaderboard/repository"
)

type LeaderboardService interface {
	// GetLeaderboard returns the full ranking, flagging the entry whose
	// nickname matches currentNickname. An empty ledger yields an empty
	// list, not an error.
	GetLeaderboard(ctx context.Context, currentNickname string) ([]dto.LeaderboardEntry, error)
}

type leaderboardService struct {
	repo repository.LeaderboardRepository
}

func NewLeaderboardService(repo repository.LeaderboardRepository) LeaderboardService {
	return &leaderboardService{repo: repo}
}

func (s *leaderboardService) GetLeaderboard(ctx context.Context, currentNickname string) ([]dto.LeaderboardEntry, error) {
	totals, err := s.repo.GetTotals(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]dto.LeaderboardEntry, 0, len(totals))
	for i, total := range totals {
		entries = append(entries, dto.LeaderboardEntry{
			Position:      i + 1, // 1-based position
			Nickname:      total.Nickname,
			TotalPoints:   total.TotalPoints,
			IsCurrentUser: currentNickname != "" && total.Nickname == currentNickname,
		})
	}

	return entries, nil
}
