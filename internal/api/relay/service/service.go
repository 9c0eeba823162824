package relayService

import (
	menuService "DriveThruGolang/internal/api/menu/service"
	orderService "DriveThruGolang/internal/api/order/service"
	"DriveThruGolang/pkg/agent"
	"DriveThruGolang/pkg/conversation"
	"DriveThruGolang/pkg/latency"
	"DriveThruGolang/pkg/s3"
	"github.com/go-playground/validator/v10"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// IRelayService owns one voice session end to end: the agent dial and
// handshake, both forwarding loops, function-call dispatch, and the
// conversation transcript.
type IRelayService interface {
	HandleSession(client agent.Conn, sessionID string) error
}

type relayService struct {
	log       *logrus.Logger
	validator *validator.Validate
	dialer    agent.IDialer
	order     orderService.IOrderService
	menu      menuService.IMenuService
	latency   latency.ITracker
	recorder  conversation.IRecorder
	storage   s3.ItfS3
}

func NewRelayService(
	log *logrus.Logger,
	validator *validator.Validate,
	dialer agent.IDialer,
	order orderService.IOrderService,
	menu menuService.IMenuService,
	tracker latency.ITracker,
	recorder conversation.IRecorder,
	storage s3.ItfS3,
) IRelayService {
	return &relayService{
		log:       log,
		validator: validator,
		dialer:    dialer,
		order:     order,
		menu:      menu,
		latency:   tracker,
		recorder:  recorder,
		storage:   storage,
	}
}
