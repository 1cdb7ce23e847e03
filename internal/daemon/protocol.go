package daemon

import (
	"encoding/json"
	"fmt"

	"github.com/npratt/racetimer/internal/controller"
)

// RPC method names.
const (
	MethodStatus    = "status"
	MethodAdd       = "add"
	MethodStart     = "start"
	MethodPause     = "pause"
	MethodResume    = "resume"
	MethodStop      = "stop"
	MethodReset     = "reset"
	MethodRestart   = "restart"
	MethodUpdate    = "update"
	MethodDeleteAll = "delete_all"
	MethodShutdown  = "shutdown"
)

// Request represents a JSON-RPC request from a client.
type Request struct {
	Method string `json:"method"`
	Params any    `json:"params,omitempty"`
	ID     int    `json:"id,omitempty"`
}

// Response represents a JSON-RPC response to a client.
type Response struct {
	Result any    `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
	ID     int    `json:"id,omitempty"`
}

// StatusResponse is returned by status and by every mutating method.
type StatusResponse struct {
	State     string              `json:"state"`
	Uptime    string              `json:"uptime"`
	StartTime string              `json:"start_time"`
	Race      controller.Snapshot `json:"race"`
	// Added lists the ids created by an add call.
	Added []string `json:"added,omitempty"`
}

// AddParams contains parameters for the add method.
type AddParams struct {
	Durations []int `json:"durations"` // seconds
}

// UpdateParams contains parameters for the update method.
type UpdateParams struct {
	ID       string `json:"id"` // full id or unique prefix
	Duration int    `json:"duration"`
}

// decodeParams converts the generic params of a decoded request into dst.
func decodeParams(params any, dst any) error {
	if params == nil {
		return fmt.Errorf("missing params")
	}
	data, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("marshal params: %w", err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("invalid params: %w", err)
	}
	return nil
}
