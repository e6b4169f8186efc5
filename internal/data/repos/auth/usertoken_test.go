package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/planora/planora-backend/internal/data/repos/auth"
	"github.com/planora/planora-backend/internal/data/repos/testutil"
	types "github.com/planora/planora-backend/internal/domain"
)

func TestTokenLookupByRefreshAndAccess(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	ctx := context.Background()
	repo := auth.NewUserTokenRepo(gdb, testutil.Logger(t))

	u := testutil.SeedUser(t, ctx, tx, "token-owner@test.local")
	token := &types.UserToken{
		ID:           uuid.New(),
		UserID:       u.ID,
		AccessToken:  "access-abc",
		RefreshToken: "refresh-abc",
		ExpiresAt:    time.Now().Add(time.Hour),
	}
	if _, err := repo.Create(ctx, tx, []*types.UserToken{token}); err != nil {
		t.Fatalf("create token: %v", err)
	}

	byRefresh, err := repo.GetByRefreshToken(ctx, tx, "refresh-abc")
	if err != nil {
		t.Fatalf("get by refresh: %v", err)
	}
	if byRefresh == nil || byRefresh.ID != token.ID {
		t.Fatalf("expected token %s, got %+v", token.ID, byRefresh)
	}

	byAccess, err := repo.GetByAccessToken(ctx, tx, "access-abc")
	if err != nil {
		t.Fatalf("get by access: %v", err)
	}
	if byAccess == nil || byAccess.ID != token.ID {
		t.Fatalf("expected token %s, got %+v", token.ID, byAccess)
	}

	missing, err := repo.GetByRefreshToken(ctx, tx, "nope")
	if err != nil {
		t.Fatalf("get unknown refresh: %v", err)
	}
	if missing != nil {
		t.Fatalf("unknown refresh token should be nil, got %+v", missing)
	}
}

func TestFullDeleteExpiredKeepsLiveTokens(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	ctx := context.Background()
	repo := auth.NewUserTokenRepo(gdb, testutil.Logger(t))

	u := testutil.SeedUser(t, ctx, tx, "expiry-owner@test.local")
	expired := &types.UserToken{
		ID:           uuid.New(),
		UserID:       u.ID,
		AccessToken:  "access-old",
		RefreshToken: "refresh-old",
		ExpiresAt:    time.Now().Add(-time.Hour),
	}
	live := &types.UserToken{
		ID:           uuid.New(),
		UserID:       u.ID,
		AccessToken:  "access-live",
		RefreshToken: "refresh-live",
		ExpiresAt:    time.Now().Add(time.Hour),
	}
	if _, err := repo.Create(ctx, tx, []*types.UserToken{expired, live}); err != nil {
		t.Fatalf("create tokens: %v", err)
	}

	if err := repo.FullDeleteExpired(ctx, tx, time.Now()); err != nil {
		t.Fatalf("delete expired: %v", err)
	}

	remaining, err := repo.GetByUserIDs(ctx, tx, []uuid.UUID{u.ID})
	if err != nil {
		t.Fatalf("get by user: %v", err)
	}
	if len(remaining) != 1 || remaining[0].ID != live.ID {
		t.Fatalf("expected only the live token, got %+v", remaining)
	}
}

func TestFullDeleteByIDsIsHardDelete(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	ctx := context.Background()
	repo := auth.NewUserTokenRepo(gdb, testutil.Logger(t))

	u := testutil.SeedUser(t, ctx, tx, "harddelete-owner@test.local")
	token := &types.UserToken{
		ID:           uuid.New(),
		UserID:       u.ID,
		AccessToken:  "access-gone",
		RefreshToken: "refresh-gone",
		ExpiresAt:    time.Now().Add(time.Hour),
	}
	if _, err := repo.Create(ctx, tx, []*types.UserToken{token}); err != nil {
		t.Fatalf("create token: %v", err)
	}

	if err := repo.FullDeleteByIDs(ctx, tx, []uuid.UUID{token.ID}); err != nil {
		t.Fatalf("delete by ids: %v", err)
	}

	var count int64
	if err := tx.WithContext(ctx).
		Unscoped().
		Model(&types.UserToken{}).
		Where("id = ?", token.ID).
		Count(&count).Error; err != nil {
		t.Fatalf("count rows: %v", err)
	}
	if count != 0 {
		t.Fatalf("token row should be gone, found %d", count)
	}
}
