package controller

import (
	"ai-roleplay-be/internal/dto"
	"ai-roleplay-be/internal/pkg/serverutils"
	"ai-roleplay-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ILorebookController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	ListByWork(ctx *fiber.Ctx) error
}

type lorebookController struct {
	lorebookService service.ILorebookService
}

func NewLorebookController(lorebookService service.ILorebookService) ILorebookController {
	return &lorebookController{
		lorebookService: lorebookService,
	}
}

func (c *lorebookController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/lorebook/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("work/:workId", c.Create)
	h.Get("work/:workId", c.ListByWork)
	h.Put(":id", c.Update)
	h.Delete(":id", c.Delete)
}

func (c *lorebookController) Create(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	var req dto.CreateLorebookEntryRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	req.WorkId, _ = uuid.Parse(ctx.Params("workId"))

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.lorebookService.Create(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success create lorebook entry", res))
}

func (c *lorebookController) Update(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	var req dto.UpdateLorebookEntryRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	req.Id, _ = uuid.Parse(ctx.Params("id"))

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.lorebookService.Update(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success update lorebook entry", res))
}

func (c *lorebookController) Delete(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	id, _ := uuid.Parse(ctx.Params("id"))

	if err := c.lorebookService.Delete(ctx.Context(), userId, id); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success delete lorebook entry", fiber.Map{}))
}

func (c *lorebookController) ListByWork(ctx *fiber.Ctx) error {
	workId, _ := uuid.Parse(ctx.Params("workId"))

	res, err := c.lorebookService.ListByWork(ctx.Context(), workId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get lorebook", res))
}
