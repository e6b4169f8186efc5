package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/planora/planora-backend/internal/clients/redis"
	planrepo "github.com/planora/planora-backend/internal/data/repos/marketingplan"
	userrepo "github.com/planora/planora-backend/internal/data/repos/user"
	types "github.com/planora/planora-backend/internal/domain"
	"github.com/planora/planora-backend/internal/modules/plan"
	"github.com/planora/planora-backend/internal/platform/apierr"
	"github.com/planora/planora-backend/internal/platform/llm"
	"github.com/planora/planora-backend/internal/platform/logger"
)

// MaxInstructionRunes caps the free-text instruction embedded verbatim into
// section prompts.
const MaxInstructionRunes = 2000

type PlanService interface {
	GeneratePlan(ctx context.Context, userID uuid.UUID, bc plan.BusinessContext) (*types.MarketingPlan, error)
	RegenerateSection(ctx context.Context, userID, planID uuid.UUID, sectionPath, instruction string) (*types.MarketingPlan, error)
	ImproveSection(ctx context.Context, userID, planID uuid.UUID, sectionPath, instruction string) (*types.MarketingPlan, error)
	UpdateSection(ctx context.Context, userID, planID uuid.UUID, sectionPath string, value plan.Section) (*types.MarketingPlan, error)
	ListPlans(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]*types.MarketingPlan, int64, error)
	GetPlan(ctx context.Context, userID, planID uuid.UUID) (*types.MarketingPlan, error)
	DeletePlan(ctx context.Context, userID, planID uuid.UUID) error
}

// PlanQuotas holds the per-tier ceilings on owned plans. The quota is
// recomputed from the database on every generation attempt, never cached.
type PlanQuotas struct {
	FreeTierLimit int
	ProTierLimit  int
}

func (q PlanQuotas) Ceiling(tier string) int {
	if tier == types.PlanTierPro {
		return q.ProTierLimit
	}
	return q.FreeTierLimit
}

type planService struct {
	db       *gorm.DB
	log      *logger.Logger
	userRepo userrepo.UserRepo
	planRepo planrepo.MarketingPlanRepo
	ai       llm.JSONCompleter
	limiter  redis.RateLimiter
	quotas   PlanQuotas
}

// NewPlanService wires the generation and section-mutation orchestrators.
// limiter may be nil, in which case AI calls are not throttled.
func NewPlanService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo userrepo.UserRepo,
	planRepo planrepo.MarketingPlanRepo,
	ai llm.JSONCompleter,
	limiter redis.RateLimiter,
	quotas PlanQuotas,
) PlanService {
	return &planService{
		db:       db,
		log:      log.With("service", "PlanService"),
		userRepo: userRepo,
		planRepo: planRepo,
		ai:       ai,
		limiter:  limiter,
		quotas:   quotas,
	}
}

// GeneratePlan runs the full generation sequence: quota, prompt, repair loop,
// normalize, persist. Nothing is persisted until every prior step succeeded,
// so there is no cleanup path.
func (ps *planService) GeneratePlan(ctx context.Context, userID uuid.UUID, bc plan.BusinessContext) (*types.MarketingPlan, error) {
	bc.Trim()
	if bc.BusinessName == "" {
		return nil, apierr.InvalidArgument("missing_business_name", fmt.Errorf("business name is required"))
	}
	if !bc.Objective.Valid() {
		return nil, apierr.InvalidArgument("invalid_objective", fmt.Errorf("unknown objective %q", bc.Objective))
	}
	if !bc.Tone.Valid() {
		return nil, apierr.InvalidArgument("invalid_tone", fmt.Errorf("unknown tone %q", bc.Tone))
	}

	// Quota first: fail cheaply before any completion call is issued.
	users, err := ps.userRepo.GetByIDs(ctx, nil, []uuid.UUID{userID})
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if len(users) == 0 {
		return nil, apierr.NotFound("user_not_found", fmt.Errorf("user does not exist"))
	}
	ceiling := ps.quotas.Ceiling(users[0].PlanTier)
	owned, err := ps.planRepo.CountOwned(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count plans: %w", err)
	}
	if owned >= int64(ceiling) {
		return nil, apierr.Forbidden("quota_exceeded",
			fmt.Errorf("plan quota reached (%d of %d)", owned, ceiling))
	}

	if err := ps.throttle(ctx, userID); err != nil {
		return nil, err
	}

	prompt := plan.BuildFullPlanPrompt(bc)
	raw, err := ps.ai.CompleteJSON(ctx, prompt)
	if err != nil {
		return nil, mapLLMError(err)
	}

	doc, err := plan.Normalize(raw)
	if err != nil {
		return nil, mapSchemaError(err)
	}

	p := &types.MarketingPlan{
		ID:       uuid.New(),
		UserID:   userID,
		Title:    "Plan marketing — " + bc.BusinessName,
		Context:  datatypes.NewJSONType(bc),
		Document: datatypes.NewJSONType(doc),
	}
	created, err := ps.planRepo.Create(ctx, nil, []*types.MarketingPlan{p})
	if err != nil {
		return nil, fmt.Errorf("failed to persist plan: %w", err)
	}
	ps.log.Info("plan generated", "user_id", userID, "plan_id", p.ID)
	return created[0], nil
}

func (ps *planService) RegenerateSection(ctx context.Context, userID, planID uuid.UUID, sectionPath, instruction string) (*types.MarketingPlan, error) {
	return ps.mutateSectionWithAI(ctx, userID, planID, sectionPath, instruction, plan.BuildRegeneratePrompt)
}

func (ps *planService) ImproveSection(ctx context.Context, userID, planID uuid.UUID, sectionPath, instruction string) (*types.MarketingPlan, error) {
	return ps.mutateSectionWithAI(ctx, userID, planID, sectionPath, instruction, plan.BuildImprovePrompt)
}

type sectionPromptBuilder func(ctx plan.BusinessContext, sectionPath, instruction string, existing plan.Section) string

// mutateSectionWithAI is the shared load-resolve-prompt-writeback-persist
// sequence behind regenerate and improve. The section lookup happens before
// any completion call; an unknown path never costs an upstream request.
func (ps *planService) mutateSectionWithAI(ctx context.Context, userID, planID uuid.UUID, sectionPath, instruction string, buildPrompt sectionPromptBuilder) (*types.MarketingPlan, error) {
	if utf8.RuneCountInString(instruction) > MaxInstructionRunes {
		return nil, apierr.InvalidArgument("instruction_too_long",
			fmt.Errorf("instruction exceeds %d characters", MaxInstructionRunes))
	}

	p, existing, err := ps.loadSection(ctx, userID, planID, sectionPath)
	if err != nil {
		return nil, err
	}

	if err := ps.throttle(ctx, userID); err != nil {
		return nil, err
	}

	prompt := buildPrompt(p.Context.Data(), sectionPath, instruction, existing)
	raw, err := ps.ai.CompleteJSON(ctx, prompt)
	if err != nil {
		return nil, mapLLMError(err)
	}
	replacement, err := plan.NormalizeSection(raw)
	if err != nil {
		return nil, mapSchemaError(err)
	}

	return ps.writeSection(ctx, p, sectionPath, replacement)
}

// UpdateSection writes a caller-supplied section directly, no AI involved.
func (ps *planService) UpdateSection(ctx context.Context, userID, planID uuid.UUID, sectionPath string, value plan.Section) (*types.MarketingPlan, error) {
	p, _, err := ps.loadSection(ctx, userID, planID, sectionPath)
	if err != nil {
		return nil, err
	}
	if value.Actions == nil {
		value.Actions = []string{}
	}
	if value.KPIs == nil {
		value.KPIs = []string{}
	}
	return ps.writeSection(ctx, p, sectionPath, value)
}

func (ps *planService) ListPlans(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]*types.MarketingPlan, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	plans, total, err := ps.planRepo.ListOwned(ctx, nil, userID, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list plans: %w", err)
	}
	return plans, total, nil
}

func (ps *planService) GetPlan(ctx context.Context, userID, planID uuid.UUID) (*types.MarketingPlan, error) {
	p, err := ps.planRepo.FindOwned(ctx, nil, userID, planID)
	if err != nil {
		return nil, fmt.Errorf("failed to load plan: %w", err)
	}
	if p == nil {
		return nil, apierr.NotFound("plan_not_found", fmt.Errorf("plan does not exist"))
	}
	return p, nil
}

func (ps *planService) DeletePlan(ctx context.Context, userID, planID uuid.UUID) error {
	deleted, err := ps.planRepo.DeleteOwned(ctx, nil, userID, planID)
	if err != nil {
		return fmt.Errorf("failed to delete plan: %w", err)
	}
	if !deleted {
		return apierr.NotFound("plan_not_found", fmt.Errorf("plan does not exist"))
	}
	ps.log.Info("plan deleted", "user_id", userID, "plan_id", planID)
	return nil
}

func (ps *planService) loadSection(ctx context.Context, userID, planID uuid.UUID, sectionPath string) (*types.MarketingPlan, plan.Section, error) {
	p, err := ps.planRepo.FindOwned(ctx, nil, userID, planID)
	if err != nil {
		return nil, plan.Section{}, fmt.Errorf("failed to load plan: %w", err)
	}
	if p == nil {
		return nil, plan.Section{}, apierr.NotFound("plan_not_found", fmt.Errorf("plan does not exist"))
	}
	doc := p.Document.Data()
	existing, ok := plan.GetSection(&doc, sectionPath)
	if !ok {
		return nil, plan.Section{}, apierr.NotFound("section_not_found",
			fmt.Errorf("unknown section %q, known sections: %v", sectionPath, plan.KnownSectionPaths()))
	}
	return p, existing, nil
}

func (ps *planService) writeSection(ctx context.Context, p *types.MarketingPlan, sectionPath string, value plan.Section) (*types.MarketingPlan, error) {
	doc := p.Document.Data()
	// The path was validated in loadSection; the table is the same, so this
	// cannot miss.
	plan.SetSection(&doc, sectionPath, value)
	p.Document = datatypes.NewJSONType(doc)

	saved, err := ps.planRepo.Save(ctx, nil, p)
	if err != nil {
		return nil, fmt.Errorf("failed to persist plan: %w", err)
	}
	ps.log.Info("section updated", "plan_id", p.ID, "section", sectionPath)
	return saved, nil
}

// throttle consults the Redis rate limiter when one is configured. Limiter
// backend failures are fail-open: throttling protects cost, it is not an
// integrity boundary.
func (ps *planService) throttle(ctx context.Context, userID uuid.UUID) error {
	if ps.limiter == nil {
		return nil
	}
	allowed, err := ps.limiter.Allow(ctx, userID.String())
	if err != nil {
		ps.log.Warn("rate limiter unavailable, allowing request", "error", err)
		return nil
	}
	if !allowed {
		return apierr.New(http.StatusTooManyRequests, "rate_limited",
			fmt.Errorf("too many AI requests, retry later"))
	}
	return nil
}

func mapLLMError(err error) error {
	var transport *llm.TransportError
	if errors.As(err, &transport) {
		return apierr.Upstream("upstream_unreachable", fmt.Errorf("completion service unreachable"))
	}
	var upstream *llm.UpstreamError
	if errors.As(err, &upstream) {
		return apierr.Upstream("upstream_error", fmt.Errorf("completion service error: %s", upstream.Message))
	}
	var malformed *llm.MalformedResponseError
	if errors.As(err, &malformed) {
		return apierr.Upstream("malformed_ai_response", fmt.Errorf("completion reply was not valid JSON after repair"))
	}
	return err
}

func mapSchemaError(err error) error {
	var schema *plan.SchemaError
	if errors.As(err, &schema) {
		return apierr.Upstream("invalid_plan_shape", err)
	}
	return err
}
