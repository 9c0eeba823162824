package metrics

import (
	"net/http"

	"DriveThruGolang/pkg/response"
)

var (
	ErrNoSamples = response.NewError(http.StatusNotFound, "no latency samples recorded for operation")
)
