package menuService

import (
	"DriveThruGolang/internal/api/menu"
	"DriveThruGolang/internal/entity"
	"DriveThruGolang/pkg/latency"
	"DriveThruGolang/pkg/qu"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

const defaultQueryLimit = 5

type IMenuService interface {
	Categories(ctx context.Context) menu.CategoriesResponse
	CategoryItems(ctx context.Context, req menu.CategoryItemsRequest) menu.CategoryItemsResponse
	QueryItems(ctx context.Context, req menu.QueryItemsRequest) (menu.QueryItemsResponse, error)
	QueryModifiers(ctx context.Context, session *entity.OrderSession, req menu.QueryModifiersRequest) (menu.QueryModifiersResponse, error)
}

type menuService struct {
	log     *logrus.Logger
	qu      qu.IQu
	latency latency.ITracker
}

func NewMenuService(log *logrus.Logger, quClient qu.IQu, tracker latency.ITracker) IMenuService {
	return &menuService{
		log:     log,
		qu:      quClient,
		latency: tracker,
	}
}
