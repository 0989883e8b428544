package web

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"

	"github.com/lumamark/relay/pkg/graph"
	"github.com/lumamark/relay/pkg/models"
	"github.com/lumamark/relay/pkg/persistence"
	"github.com/lumamark/relay/pkg/services"
	"github.com/lumamark/relay/pkg/workflow"
)

type APIHandlers struct {
	workflowService *services.Workflow
	dispatcher      *workflow.Dispatcher
	validator       *validator.Validate
}

func NewAPIHandlers(
	workflowService *services.Workflow,
	dispatcher *workflow.Dispatcher,
	validator *validator.Validate,
) *APIHandlers {
	return &APIHandlers{
		workflowService: workflowService,
		dispatcher:      dispatcher,
		validator:       validator,
	}
}

func (h *APIHandlers) HealthCheck(c fiber.Ctx) error {
	repositoryCheck, ok := h.workflowService.HealthCheck(c.Context())

	status := "unhealthy"
	httpStatus := http.StatusInternalServerError

	if ok {
		status = "healthy"
		httpStatus = http.StatusOK
	}

	return c.Status(httpStatus).JSON(fiber.Map{
		"status": status,
		"checkers": fiber.Map{
			"repository": repositoryCheck,
		},
		"timestamp": time.Now().UTC(),
	})
}

func (h *APIHandlers) GetWorkflows(c fiber.Ctx) error {
	workflows, err := h.workflowService.ListWorkflows(c.Context())
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(fiber.Map{"workflows": workflows})
}

func (h *APIHandlers) GetWorkflow(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Workflow ID is required")
	}

	found, err := h.workflowService.FetchByID(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(found)
}

func (h *APIHandlers) CreateWorkflow(c fiber.Ctx) error {
	var req CreateWorkflowRequest

	err := c.Bind().JSON(&req)
	if err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	err = h.validator.Struct(req)
	if err != nil {
		return badRequest(c, err.Error())
	}

	created := &models.Workflow{
		Name:          req.Name,
		CompanyID:     req.CompanyID,
		TriggerType:   req.TriggerType,
		TriggerConfig: req.TriggerConfig,
		Steps:         req.Steps,
		IsActive:      req.IsActive,
	}

	err = h.workflowService.Save(c.Context(), created)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *APIHandlers) UpdateWorkflow(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Workflow ID is required")
	}

	var req UpdateWorkflowRequest

	err := c.Bind().JSON(&req)
	if err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	err = h.validator.Struct(req)
	if err != nil {
		return badRequest(c, err.Error())
	}

	existing, err := h.workflowService.FetchByID(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	if req.Name != nil {
		existing.Name = *req.Name
	}

	if req.TriggerType != nil {
		existing.TriggerType = *req.TriggerType
	}

	if req.TriggerConfig != nil {
		existing.TriggerConfig = req.TriggerConfig
	}

	if req.Steps != nil {
		existing.Steps = req.Steps
	}

	if req.IsActive != nil {
		existing.IsActive = *req.IsActive
	}

	err = h.workflowService.Save(c.Context(), existing)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(existing)
}

func (h *APIHandlers) DeleteWorkflow(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Workflow ID is required")
	}

	err := h.workflowService.Delete(c.Context(), id)
	if err != nil {
		if persistence.IsWorkflowNotFound(err) {
			return notFound(c, "workflow not found")
		}

		return internalError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *APIHandlers) GetWorkflowGraph(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Workflow ID is required")
	}

	g, err := h.workflowService.Graph(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(g)
}

func (h *APIHandlers) SaveWorkflowGraph(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Workflow ID is required")
	}

	var g graph.Graph

	err := c.Bind().JSON(&g)
	if err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	updated, err := h.workflowService.SaveGraph(c.Context(), id, &g)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(updated)
}

func (h *APIHandlers) GetRuns(c fiber.Ctx) error {
	limit := 0

	if limitStr := c.Query("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil {
			return badRequest(c, "Invalid limit parameter")
		}

		limit = parsed
	}

	runs, err := h.workflowService.ListRuns(c.Context(), limit)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(fiber.Map{"runs": runs})
}

func (h *APIHandlers) GetRun(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Run ID is required")
	}

	run, err := h.workflowService.FetchRun(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(run)
}

// FireTrigger dispatches a trigger event to every matching active workflow.
// The body is the trigger data passed to the runs.
func (h *APIHandlers) FireTrigger(c fiber.Ctx) error {
	triggerType := c.Params("type")
	if triggerType == "" {
		return badRequest(c, "Trigger type is required")
	}

	triggerData := make(map[string]any)

	if len(c.Body()) > 0 {
		err := c.Bind().JSON(&triggerData)
		if err != nil {
			return badRequest(c, "Invalid JSON format")
		}
	}

	result, err := h.dispatcher.Dispatch(c.Context(), triggerType, triggerData)
	if err != nil {
		return internalError(c, err)
	}

	return c.JSON(result)
}
