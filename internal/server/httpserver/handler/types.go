package handler

// CommandResponse is the body of /click, /set_monitor, /type_text and
// /type_key.
type CommandResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// ShellResponse is the body of /cmd. Output is always present.
type ShellResponse struct {
	Success bool   `json:"success"`
	Output  string `json:"output"`
}

// ClickRequest is the body of POST /click. Coordinates are relative to the
// Width x Height image the client displayed.
type ClickRequest struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Button string  `json:"button,omitempty"`
}

// SetMonitorRequest is the body of POST /set_monitor. Monitor defaults to 1.
type SetMonitorRequest struct {
	Monitor *int `json:"monitor"`
}

// TypeTextRequest is the body of POST /type_text. Enter defaults to true.
type TypeTextRequest struct {
	Text  string `json:"text"`
	Enter *bool  `json:"enter"`
}

// ShellRequest is the body of POST /cmd.
type ShellRequest struct {
	Command string `json:"command"`
}

// TypeKeyRequest is the body of POST /type_key.
type TypeKeyRequest struct {
	Keys []string `json:"keys"`
}

// StatusResponse is the body of GET /status.
type StatusResponse struct {
	TokenValid          bool     `json:"token_valid"`
	SessionActive       bool     `json:"session_active"`
	TokenPreview        string   `json:"token_preview"`
	AuthorizedAddresses []string `json:"authorized_addresses"`
	MonitorCount        int      `json:"monitor_count"`
	CurrentMonitor      int      `json:"current_monitor"`
	Version             string   `json:"version"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}
