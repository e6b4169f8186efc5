package marketingplan

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/planora/planora-backend/internal/domain"
	"github.com/planora/planora-backend/internal/platform/logger"
)

// MarketingPlanRepo scopes every read and write by owner. Ownership lives in
// the query predicate, so "not found" and "not owned" are indistinguishable
// to callers and other users' plans never leak.
type MarketingPlanRepo interface {
	Create(ctx context.Context, tx *gorm.DB, plans []*types.MarketingPlan) ([]*types.MarketingPlan, error)
	FindOwned(ctx context.Context, tx *gorm.DB, userID, planID uuid.UUID) (*types.MarketingPlan, error)
	CountOwned(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error)
	ListOwned(ctx context.Context, tx *gorm.DB, userID uuid.UUID, offset, limit int) ([]*types.MarketingPlan, int64, error)
	Save(ctx context.Context, tx *gorm.DB, p *types.MarketingPlan) (*types.MarketingPlan, error)
	DeleteOwned(ctx context.Context, tx *gorm.DB, userID, planID uuid.UUID) (bool, error)
}

type marketingPlanRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMarketingPlanRepo(db *gorm.DB, baseLog *logger.Logger) MarketingPlanRepo {
	return &marketingPlanRepo{db: db, log: baseLog.With("repo", "MarketingPlanRepo")}
}

func (pr *marketingPlanRepo) Create(ctx context.Context, tx *gorm.DB, plans []*types.MarketingPlan) ([]*types.MarketingPlan, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	if len(plans) == 0 {
		return []*types.MarketingPlan{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&plans).Error; err != nil {
		return nil, err
	}
	return plans, nil
}

// FindOwned returns (nil, nil) when no plan matches both the id and the
// owner.
func (pr *marketingPlanRepo) FindOwned(ctx context.Context, tx *gorm.DB, userID, planID uuid.UUID) (*types.MarketingPlan, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	var result types.MarketingPlan
	err := transaction.WithContext(ctx).
		Where("id = ? AND user_id = ?", planID, userID).
		First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (pr *marketingPlanRepo) CountOwned(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.MarketingPlan{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (pr *marketingPlanRepo) ListOwned(ctx context.Context, tx *gorm.DB, userID uuid.UUID, offset, limit int) ([]*types.MarketingPlan, int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	total, err := pr.CountOwned(ctx, transaction, userID)
	if err != nil {
		return nil, 0, err
	}
	var results []*types.MarketingPlan
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, 0, err
	}
	return results, total, nil
}

// Save writes the whole row back, document column included. Last write wins
// when two mutations of the same plan race; plans are single-owner documents
// and overlapping edits from two sessions are not supported.
func (pr *marketingPlanRepo) Save(ctx context.Context, tx *gorm.DB, p *types.MarketingPlan) (*types.MarketingPlan, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	if err := transaction.WithContext(ctx).Save(p).Error; err != nil {
		return nil, err
	}
	return p, nil
}

func (pr *marketingPlanRepo) DeleteOwned(ctx context.Context, tx *gorm.DB, userID, planID uuid.UUID) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	res := transaction.WithContext(ctx).
		Where("id = ? AND user_id = ?", planID, userID).
		Delete(&types.MarketingPlan{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
