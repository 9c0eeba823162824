package metrics

import "DriveThruGolang/pkg/latency"

type LatencyReport struct {
	Operations []latency.Stats `json:"operations"`
	Count      int             `json:"count"`
}
