package relayHandler

import (
	relayService "DriveThruGolang/internal/api/relay/service"
	"DriveThruGolang/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/sirupsen/logrus"
)

type RelayHandler struct {
	log          *logrus.Logger
	relayService relayService.IRelayService
	utils        utils.IUtils
}

func New(
	log *logrus.Logger,
	rs relayService.IRelayService,
	utils utils.IUtils,
) *RelayHandler {
	return &RelayHandler{
		log:          log,
		relayService: rs,
		utils:        utils,
	}
}

func (h *RelayHandler) Start(srv fiber.Router) {
	wsMiddleware := func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	}

	voice := srv.Group("/voice")
	voice.Use("/ws", wsMiddleware)
	voice.Get("/ws", websocket.New(h.handleVoiceSession))
}
