package testutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/planora/planora-backend/internal/domain"
	"github.com/planora/planora-backend/internal/modules/plan"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, email string) *types.User {
	tb.Helper()
	u := &types.User{
		ID:        uuid.New(),
		Email:     email,
		Password:  "pw",
		FirstName: "A",
		LastName:  "B",
		PlanTier:  types.PlanTierFree,
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedMarketingPlan(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID) *types.MarketingPlan {
	tb.Helper()
	p := &types.MarketingPlan{
		ID:     uuid.New(),
		UserID: userID,
		Title:  "plan",
		Context: datatypes.NewJSONType(plan.BusinessContext{
			BusinessName: "Acme",
			Industry:     "SaaS",
			Objective:    plan.ObjectiveSales,
			Tone:         plan.ToneProfessional,
		}),
		Document: datatypes.NewJSONType(plan.EmptyDocument()),
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed marketing plan: %v", err)
	}
	return p
}
