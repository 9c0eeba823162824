package relay

import (
	"DriveThruGolang/pkg/response"
	"net/http"
)

var (
	ErrAgentUnavailable      = response.NewError(http.StatusBadGateway, "voice agent unavailable")
	ErrAgentRejectedSettings = response.NewError(http.StatusBadGateway, "voice agent rejected session settings")
)
