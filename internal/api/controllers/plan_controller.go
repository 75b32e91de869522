package controllers

import (
	"github.com/gin-gonic/gin"

	"backoffice/internal/models/request_models"
	"backoffice/internal/services"
	"backoffice/pkg/utils"
)

type PlanController struct {
	planService services.PlanServiceInterface
}

func NewPlanController(planService services.PlanServiceInterface) *PlanController {
	return &PlanController{planService: planService}
}

// PublicPlans godoc
// @Summary List active plans
// @Tags Plans
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Router /getPlans [get]
func (p *PlanController) PublicPlans(c *gin.Context) {
	plans, err := p.planService.GetPlans(c.Request.Context(), true)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, plans, "")
}

func (p *PlanController) ListPlans(c *gin.Context) {
	plans, err := p.planService.GetPlans(c.Request.Context(), false)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, plans, "")
}

func (p *PlanController) GetPlan(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	plan, err := p.planService.GetPlanInfoById(c.Request.Context(), id)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, plan, "")
}

func (p *PlanController) CreatePlan(c *gin.Context) {
	var req request_models.PlanRequest
	if !bindJSON(c, &req) {
		return
	}
	plan, err := p.planService.CreatePlan(c.Request.Context(), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondCreated(c, plan, "Plan created successfully")
}

func (p *PlanController) UpdatePlan(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req request_models.PlanRequest
	if !bindJSON(c, &req) {
		return
	}
	plan, err := p.planService.UpdatePlan(c.Request.Context(), id, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, plan, "Plan updated successfully")
}

func (p *PlanController) DeletePlan(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := p.planService.DeletePlan(c.Request.Context(), id); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, nil, "Plan deleted successfully")
}
