package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	types "github.com/planora/planora-backend/internal/domain"
	"github.com/planora/planora-backend/internal/http/response"
	"github.com/planora/planora-backend/internal/modules/plan"
	"github.com/planora/planora-backend/internal/platform/logger"
	"github.com/planora/planora-backend/internal/requestdata"
	"github.com/planora/planora-backend/internal/services"
)

type PlanHandler struct {
	log         *logger.Logger
	planService services.PlanService
}

func NewPlanHandler(log *logger.Logger, planService services.PlanService) *PlanHandler {
	return &PlanHandler{
		log:         log.With("handler", "PlanHandler"),
		planService: planService,
	}
}

type generatePlanRequest struct {
	BusinessName   string  `json:"business_name" binding:"required"`
	Industry       string  `json:"industry"`
	Description    string  `json:"description"`
	TargetAudience string  `json:"target_audience"`
	Location       string  `json:"location"`
	Objective      string  `json:"objective" binding:"required"`
	Tone           string  `json:"tone" binding:"required"`
	MonthlyBudget  float64 `json:"monthly_budget"`
}

func (h *PlanHandler) Generate(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req generatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	bc := plan.BusinessContext{
		BusinessName:   req.BusinessName,
		Industry:       req.Industry,
		Description:    req.Description,
		TargetAudience: req.TargetAudience,
		Location:       req.Location,
		Objective:      plan.Objective(req.Objective),
		Tone:           plan.Tone(req.Tone),
		MonthlyBudget:  req.MonthlyBudget,
	}
	created, err := h.planService.GeneratePlan(c.Request.Context(), userID, bc)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondCreated(c, created)
}

type listPlansResponse struct {
	Plans []*types.MarketingPlan `json:"plans"`
	Total int64                  `json:"total"`
}

func (h *PlanHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	plans, total, err := h.planService.ListPlans(c.Request.Context(), userID, page, pageSize)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, listPlansResponse{Plans: plans, Total: total})
}

func (h *PlanHandler) Get(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	planID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	p, err := h.planService.GetPlan(c.Request.Context(), userID, planID)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, p)
}

func (h *PlanHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	planID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if err := h.planService.DeletePlan(c.Request.Context(), userID, planID); err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"status": "deleted"})
}

type sectionInstructionRequest struct {
	Instruction string `json:"instruction"`
}

func (h *PlanHandler) RegenerateSection(c *gin.Context) {
	h.mutateSection(c, h.planService.RegenerateSection)
}

func (h *PlanHandler) ImproveSection(c *gin.Context) {
	h.mutateSection(c, h.planService.ImproveSection)
}

type sectionMutation func(ctx context.Context, userID, planID uuid.UUID, sectionPath, instruction string) (*types.MarketingPlan, error)

func (h *PlanHandler) mutateSection(c *gin.Context, op sectionMutation) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	planID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	sectionPath := c.Param("path")

	var req sectionInstructionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
			return
		}
	}

	p, err := op(c.Request.Context(), userID, planID, sectionPath, req.Instruction)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, p)
}

func (h *PlanHandler) UpdateSection(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	planID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	sectionPath := c.Param("path")

	var value plan.Section
	if err := c.ShouldBindJSON(&value); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}

	p, err := h.planService.UpdateSection(c.Request.Context(), userID, planID, sectionPath, value)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, p)
}

func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return uuid.Nil, false
	}
	return rd.UserID, true
}

func pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return uuid.Nil, false
	}
	return id, true
}
