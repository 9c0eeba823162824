package menuHandler

import (
	menuService "DriveThruGolang/internal/api/menu/service"
	"DriveThruGolang/internal/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type MenuHandler struct {
	log         *logrus.Logger
	validator   *validator.Validate
	middleware  middleware.Middleware
	menuService menuService.IMenuService
}

func New(
	log *logrus.Logger,
	validate *validator.Validate,
	middleware middleware.Middleware,
	menuService menuService.IMenuService,
) *MenuHandler {
	return &MenuHandler{
		log:         log,
		validator:   validate,
		middleware:  middleware,
		menuService: menuService,
	}
}

func (h *MenuHandler) Start(srv fiber.Router) {
	menu := srv.Group("/menu")

	menu.Get("/categories", h.GetCategories)
	menu.Get("/items", h.GetCategoryItems)
	menu.Get("/search", h.SearchItems)
}
