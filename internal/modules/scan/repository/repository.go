package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/tr33-app/tr33-backend/internal/entity"
	"gorm.io/gorm"
)

// ScanRepository is the ledger: rows are inserted once and only read
// back for the collection view and reindexing.
type ScanRepository interface {
	Create(ctx context.Context, scan *entity.ScannedTree) error
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]entity.ScannedTree, error)
	FindAll(ctx context.Context) ([]entity.ScannedTree, error)
}

type scanRepository struct {
	db *gorm.DB
}

func NewScanRepository(db *gorm.DB) ScanRepository {
	return &scanRepository{db: db}
}

func (r *scanRepository) Create(ctx context.Context, scan *entity.ScannedTree) error {
	return r.db.WithContext(ctx).Create(scan).Error
}

func (r *scanRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]entity.ScannedTree, error) {
	var scans []entity.ScannedTree
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&scans).Error
	return scans, err
}

func (r *scanRepository) FindAll(ctx context.Context) ([]entity.ScannedTree, error) {
	var scans []entity.ScannedTree
	err := r.db.WithContext(ctx).Preload("User").Find(&scans).Error
	return scans, err
}
