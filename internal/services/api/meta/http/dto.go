package http

// Check states, best to worst
const (
	CheckOK      = "ok"
	CheckSkipped = "skipped" // dependency disabled by config
	CheckPartial = "partial" // some of it serves
	CheckFail    = "fail"
)

// HealthResponse is the health payload
// swagger:model
type HealthResponse struct {
	Status  string          `json:"status"   example:"healthy"` // healthy degraded
	Models  map[string]bool `json:"models"`
	Message string          `json:"message"  example:"all models loaded"`
	Service string          `json:"service"  example:"custintel-api"`
	Started string          `json:"started"  example:"2025-09-03T13:00:00Z"`
	Now     string          `json:"now"      example:"2025-09-03T13:05:00Z"`
}

// ReadyCheck is the outcome of one dependency check
type ReadyCheck struct {
	Name   string `json:"name"            example:"pg"`
	Status string `json:"status"          example:"ok"`
	Error  string `json:"error,omitempty" example:"dial tcp 127.0.0.1:5432: connect: connection refused"`
}

// ReadyResponse rolls the checks up: any fail is fail, any partial is degraded
type ReadyResponse struct {
	Status string       `json:"status" example:"ok"` // ok degraded fail
	Checks []ReadyCheck `json:"checks"`
	Now    string       `json:"now"    example:"2025-09-03T13:05:00Z"`
}

// ServiceResponse is the uptime payload
type ServiceResponse struct {
	Name    string `json:"name"    example:"custintel-api"`
	Started string `json:"started" example:"2025-09-03T13:00:00Z"`
	Uptime  int64  `json:"uptime"  example:"300"` // seconds
}
