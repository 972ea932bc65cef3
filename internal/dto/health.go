package dto

// HealthResponse is the payload of the liveness/readiness probes
type HealthResponse struct {
	Status  string         `json:"status"`
	Details map[string]any `json:"details,omitempty"`
}

// APIStatus is the payload of the versioned health endpoint
type APIStatus struct {
	Environment string `json:"environment" example:"local"`
	Status      string `json:"status" example:"Healthy"`
	DBStatus    string `json:"db_status" example:"Healthy"`
	Timestamp   string `json:"timestamp"`
	Version     string `json:"version" example:"1.0.0"`
	Uptime      string `json:"uptime"`
}
