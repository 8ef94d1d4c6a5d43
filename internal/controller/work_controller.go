package controller

import (
	"ai-roleplay-be/internal/dto"
	"ai-roleplay-be/internal/pkg/serverutils"
	"ai-roleplay-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IWorkController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	UpdateRelationshipConfig(ctx *fiber.Ctx) error
	CreateCharacter(ctx *fiber.Ctx) error
	RelationshipSnapshot(ctx *fiber.Ctx) error
}

type workController struct {
	workService      service.IWorkService
	retrievalService service.IRetrievalService
}

func NewWorkController(workService service.IWorkService, retrievalService service.IRetrievalService) IWorkController {
	return &workController{
		workService:      workService,
		retrievalService: retrievalService,
	}
}

func (c *workController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/work/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("", c.Create)
	h.Get(":id", c.Show)
	h.Put(":id/relationship-config", c.UpdateRelationshipConfig)
	h.Post(":id/character", c.CreateCharacter)
	h.Get(":id/character/:characterId/relationship", c.RelationshipSnapshot)
}

func (c *workController) Create(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	var req dto.CreateWorkRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.workService.Create(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success create work", res))
}

func (c *workController) Show(ctx *fiber.Ctx) error {
	id, _ := uuid.Parse(ctx.Params("id"))

	res, err := c.workService.Show(ctx.Context(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get work", res))
}

func (c *workController) UpdateRelationshipConfig(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	var req dto.UpdateRelationshipConfigRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	req.WorkId, _ = uuid.Parse(ctx.Params("id"))

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.workService.UpdateRelationshipConfig(ctx.Context(), userId, &req); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success update relationship config", fiber.Map{}))
}

func (c *workController) CreateCharacter(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	var req dto.CreateCharacterRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	req.WorkId, _ = uuid.Parse(ctx.Params("id"))

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.workService.CreateCharacter(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success create character", res))
}

// RelationshipSnapshot returns the caller's relationship with one character of
// this work, recomputed from the stored axis values.
func (c *workController) RelationshipSnapshot(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	workId, _ := uuid.Parse(ctx.Params("id"))
	characterId, _ := uuid.Parse(ctx.Params("characterId"))

	res, err := c.retrievalService.RelationshipSnapshot(ctx.Context(), userId, characterId, workId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get relationship", res))
}
