package repository

import (
	"context"

	"github.com/tr33-app/tr33-backend/internal/entity"
	"gorm.io/gorm"
)

// Total is one aggregated row: a nickname and the sum of its committed
// carbon scores.
type Total struct {
	Nickname    string
	TotalPoints int
}

// LeaderboardRepository recomputes the ranking on every fetch from the
// scan ledger; nothing is precomputed or cached.
type LeaderboardRepository interface {
	GetTotals(ctx context.Context) ([]Total, error)
}

type leaderboardRepository struct {
	db *gorm.DB
}

func NewLeaderboardRepository(db *gorm.DB) LeaderboardRepository {
	return &leaderboardRepository{db: db}
}

func (r *leaderboardRepository) GetTotals(ctx context.Context) ([]Total, error) {
	var totals []Total
	err := r.db.WithContext(ctx).
		Model(&entity.ScannedTree{}).
		Select("users.nickname AS nickname, SUM(scanned_trees.carbon_score) AS total_points").
		Joins("JOIN users ON users.id = scanned_trees.user_id").
		Group("users.id, users.nickname").
		Order("total_points DESC, users.nickname ASC").
		Scan(&totals).Error
	return totals, err
}
