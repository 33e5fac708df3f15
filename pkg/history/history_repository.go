package history

import (
	"context"

	"gorm.io/gorm"

	"EcoScan-Backend/entities"
)

type (
	HistoryRepository interface {
		CreateHistory(ctx context.Context, history *entities.ScanHistory) error
		GetHistoryByID(ctx context.Context, id string) (*entities.ScanHistory, error)
		GetUserHistory(ctx context.Context, userID string, page, limit int) ([]*entities.ScanHistory, int64, error)
		DeleteHistory(ctx context.Context, id, userID string) error
	}

	historyRepository struct {
		db *gorm.DB
	}
)

func NewHistoryRepository(db *gorm.DB) HistoryRepository {
	return &historyRepository{db: db}
}

func (r *historyRepository) CreateHistory(ctx context.Context, history *entities.ScanHistory) error {
	return r.db.WithContext(ctx).Create(history).Error
}

func (r *historyRepository) GetHistoryByID(ctx context.Context, id string) (*entities.ScanHistory, error) {
	var history entities.ScanHistory
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&history).Error; err != nil {
		return nil, err
	}
	return &history, nil
}

func (r *historyRepository) GetUserHistory(ctx context.Context, userID string, page, limit int) ([]*entities.ScanHistory, int64, error) {
	var histories []*entities.ScanHistory
	var count int64
	offset := (page - 1) * limit

	query := r.db.WithContext(ctx).Model(&entities.ScanHistory{}).Where("user_id = ?", userID).Session(&gorm.Session{})
	if err := query.Count(&count).Error; err != nil {
		return nil, 0, err
	}
	if err := query.Order("scanned_at desc").Offset(offset).Limit(limit).Find(&histories).Error; err != nil {
		return nil, 0, err
	}
	return histories, count, nil
}

func (r *historyRepository) DeleteHistory(ctx context.Context, id, userID string) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&entities.ScanHistory{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
