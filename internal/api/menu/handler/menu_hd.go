package menuHandler

import (
	"DriveThruGolang/internal/api/menu"
	contextPkg "DriveThruGolang/pkg/context"
	"DriveThruGolang/pkg/handlerUtil"
	"DriveThruGolang/pkg/log"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/net/context"
	"time"
)

func (h *MenuHandler) GetCategories(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
	}).Debug("Processing menu categories request")

	resp := h.menuService.Categories(c)

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, resp)
	}
}

func (h *MenuHandler) GetCategoryItems(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
		"category":   ctx.Query("category"),
	}).Debug("Processing category items request")

	req := menu.CategoryItemsRequest{
		Category: ctx.Query("category"),
	}

	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	resp := h.menuService.CategoryItems(c, req)
	if !resp.Success {
		return errHandler.Handle(ctx, requestID, menu.ErrCategoryNotFound, ctx.Path(), "category_items")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, resp)
	}
}

func (h *MenuHandler) SearchItems(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
		"query":      ctx.Query("q"),
	}).Debug("Processing menu search request")

	req := menu.QueryItemsRequest{
		Query: ctx.Query("q"),
		Limit: ctx.QueryInt("limit"),
	}

	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	resp, err := h.menuService.QueryItems(c, req)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "query_items")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, resp)
	}
}
