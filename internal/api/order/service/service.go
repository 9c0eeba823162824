package orderService

import (
	"DriveThruGolang/internal/api/order"
	"DriveThruGolang/internal/entity"
	"DriveThruGolang/pkg/qu"
	"DriveThruGolang/pkg/utils"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

type IOrderService interface {
	AddItem(ctx context.Context, session *entity.OrderSession, req order.AddItemRequest) order.AddItemResponse
	DeleteItem(ctx context.Context, session *entity.OrderSession, req order.DeleteItemRequest) (order.DeleteItemResponse, error)
	AddModifier(ctx context.Context, session *entity.OrderSession, req order.AddModifierRequest) (order.AddModifierResponse, error)
	Submit(ctx context.Context, session *entity.OrderSession) (order.SubmitResponse, error)
	Describe(ctx context.Context, session *entity.OrderSession) order.OrderSnapshotResponse
}

type orderService struct {
	log   *logrus.Logger
	qu    qu.IQu
	utils utils.IUtils
}

func NewOrderService(log *logrus.Logger, quClient qu.IQu, utils utils.IUtils) IOrderService {
	return &orderService{
		log:   log,
		qu:    quClient,
		utils: utils,
	}
}
