package marketingplan_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/planora/planora-backend/internal/data/repos/marketingplan"
	"github.com/planora/planora-backend/internal/data/repos/testutil"
	"github.com/planora/planora-backend/internal/modules/plan"
)

func TestFindOwnedScopesByOwner(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	ctx := context.Background()
	repo := marketingplan.NewMarketingPlanRepo(gdb, testutil.Logger(t))

	owner := testutil.SeedUser(t, ctx, tx, "owner@test.local")
	stranger := testutil.SeedUser(t, ctx, tx, "stranger@test.local")
	seeded := testutil.SeedMarketingPlan(t, ctx, tx, owner.ID)

	got, err := repo.FindOwned(ctx, tx, owner.ID, seeded.ID)
	if err != nil {
		t.Fatalf("find owned: %v", err)
	}
	if got == nil || got.ID != seeded.ID {
		t.Fatalf("expected plan %s, got %+v", seeded.ID, got)
	}

	got, err = repo.FindOwned(ctx, tx, stranger.ID, seeded.ID)
	if err != nil {
		t.Fatalf("find as stranger: %v", err)
	}
	if got != nil {
		t.Fatalf("stranger should not see the plan, got %+v", got)
	}

	got, err = repo.FindOwned(ctx, tx, owner.ID, uuid.New())
	if err != nil {
		t.Fatalf("find unknown id: %v", err)
	}
	if got != nil {
		t.Fatalf("unknown id should be nil, got %+v", got)
	}
}

func TestCountOwnedPerUser(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	ctx := context.Background()
	repo := marketingplan.NewMarketingPlanRepo(gdb, testutil.Logger(t))

	owner := testutil.SeedUser(t, ctx, tx, "count-owner@test.local")
	other := testutil.SeedUser(t, ctx, tx, "count-other@test.local")
	for i := 0; i < 3; i++ {
		testutil.SeedMarketingPlan(t, ctx, tx, owner.ID)
	}
	testutil.SeedMarketingPlan(t, ctx, tx, other.ID)

	count, err := repo.CountOwned(ctx, tx, owner.ID)
	if err != nil {
		t.Fatalf("count owned: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3 plans, got %d", count)
	}
}

func TestListOwnedPagination(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	ctx := context.Background()
	repo := marketingplan.NewMarketingPlanRepo(gdb, testutil.Logger(t))

	owner := testutil.SeedUser(t, ctx, tx, "list-owner@test.local")
	for i := 0; i < 5; i++ {
		p := testutil.SeedMarketingPlan(t, ctx, tx, owner.ID)
		p.Title = fmt.Sprintf("plan %d", i)
		if _, err := repo.Save(ctx, tx, p); err != nil {
			t.Fatalf("save seed plan: %v", err)
		}
	}

	firstPage, total, err := repo.ListOwned(ctx, tx, owner.ID, 0, 2)
	if err != nil {
		t.Fatalf("list first page: %v", err)
	}
	if total != 5 {
		t.Fatalf("expected total 5, got %d", total)
	}
	if len(firstPage) != 2 {
		t.Fatalf("expected 2 plans on first page, got %d", len(firstPage))
	}

	lastPage, total, err := repo.ListOwned(ctx, tx, owner.ID, 4, 2)
	if err != nil {
		t.Fatalf("list last page: %v", err)
	}
	if total != 5 || len(lastPage) != 1 {
		t.Fatalf("expected 1 plan on last page of 5, got %d of %d", len(lastPage), total)
	}
}

func TestSaveOverwritesDocument(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	ctx := context.Background()
	repo := marketingplan.NewMarketingPlanRepo(gdb, testutil.Logger(t))

	owner := testutil.SeedUser(t, ctx, tx, "save-owner@test.local")
	seeded := testutil.SeedMarketingPlan(t, ctx, tx, owner.ID)

	doc := seeded.Document.Data()
	if !plan.SetSection(&doc, "pendant.canaux", plan.Section{
		Title:   "Canaux",
		Actions: []string{"SEO", "Ads"},
		KPIs:    []string{"CAC"},
	}) {
		t.Fatal("set section failed")
	}
	seeded.Document = datatypes.NewJSONType(doc)
	if _, err := repo.Save(ctx, tx, seeded); err != nil {
		t.Fatalf("save: %v", err)
	}

	reloaded, err := repo.FindOwned(ctx, tx, owner.ID, seeded.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	got, ok := plan.GetSection(ptr(reloaded.Document.Data()), "pendant.canaux")
	if !ok {
		t.Fatal("section missing after save")
	}
	if got.Title != "Canaux" || len(got.Actions) != 2 {
		t.Fatalf("document not overwritten, got %+v", got)
	}
}

func TestDeleteOwnedReportsWhetherARowWasHit(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	ctx := context.Background()
	repo := marketingplan.NewMarketingPlanRepo(gdb, testutil.Logger(t))

	owner := testutil.SeedUser(t, ctx, tx, "delete-owner@test.local")
	stranger := testutil.SeedUser(t, ctx, tx, "delete-stranger@test.local")
	seeded := testutil.SeedMarketingPlan(t, ctx, tx, owner.ID)

	deleted, err := repo.DeleteOwned(ctx, tx, stranger.ID, seeded.ID)
	if err != nil {
		t.Fatalf("delete as stranger: %v", err)
	}
	if deleted {
		t.Fatal("stranger must not delete the plan")
	}

	deleted, err = repo.DeleteOwned(ctx, tx, owner.ID, seeded.ID)
	if err != nil {
		t.Fatalf("delete as owner: %v", err)
	}
	if !deleted {
		t.Fatal("owner delete should hit a row")
	}

	deleted, err = repo.DeleteOwned(ctx, tx, owner.ID, seeded.ID)
	if err != nil {
		t.Fatalf("second delete: %v", err)
	}
	if deleted {
		t.Fatal("second delete should hit nothing")
	}
}

func ptr(d plan.Document) *plan.Document { return &d }
