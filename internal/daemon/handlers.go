package daemon

import (
	"context"
	"fmt"
	"time"
)

// shutdownDelay lets the shutdown response reach the client before the
// process starts tearing down.
const shutdownDelay = 100 * time.Millisecond

// handleRequest dispatches the request to the appropriate handler.
func (d *Daemon) handleRequest(_ context.Context, req *Request) Response {
	if d.controller == nil {
		return Response{Error: "no controller available"}
	}

	switch req.Method {
	case MethodStatus:
		return d.status(nil)
	case MethodAdd:
		return d.handleAdd(req)
	case MethodUpdate:
		return d.handleUpdate(req)
	case MethodStart:
		d.controller.StartAll()
	case MethodPause:
		d.controller.PauseAll()
	case MethodResume:
		d.controller.ResumeAll()
	case MethodStop:
		d.controller.StopAll()
	case MethodReset:
		d.controller.ResetAll()
	case MethodRestart:
		d.controller.ResetToInitialAndStart()
	case MethodDeleteAll:
		d.controller.DeleteAll()
	case MethodShutdown:
		return d.handleShutdown()
	default:
		return Response{Error: fmt.Sprintf("unknown method: %s", req.Method)}
	}

	d.logger.Debug("rpc handled", "method", req.Method)
	return d.status(nil)
}

// status builds the status response from a fresh controller snapshot.
func (d *Daemon) status(added []string) Response {
	snap := d.controller.Snapshot()

	d.mu.RLock()
	startTime := d.startTime
	d.mu.RUnlock()

	return Response{
		Result: StatusResponse{
			State:     snap.State(),
			Uptime:    time.Since(startTime).Truncate(time.Second).String(),
			StartTime: startTime.Format(time.RFC3339),
			Race:      snap,
			Added:     added,
		},
	}
}

// handleAdd creates one timer per duration. A bad value adds nothing.
func (d *Daemon) handleAdd(req *Request) Response {
	var params AddParams
	if err := decodeParams(req.Params, &params); err != nil {
		return Response{Error: err.Error()}
	}
	if len(params.Durations) == 0 {
		return Response{Error: "no durations given"}
	}

	timers, err := d.controller.AddAll(params.Durations...)
	if err != nil {
		return Response{Error: err.Error()}
	}
	added := make([]string, 0, len(timers))
	for _, t := range timers {
		added = append(added, t.ID)
	}
	d.logger.Debug("rpc handled", "method", MethodAdd, "added", len(added))
	return d.status(added)
}

// handleUpdate changes the duration of the timer matching an id prefix.
func (d *Daemon) handleUpdate(req *Request) Response {
	var params UpdateParams
	if err := decodeParams(req.Params, &params); err != nil {
		return Response{Error: err.Error()}
	}

	t, ok := d.controller.Snapshot().Find(params.ID)
	if !ok {
		return Response{Error: fmt.Sprintf("no unique timer matches %q", params.ID)}
	}
	if err := d.controller.UpdateDuration(t.ID, params.Duration); err != nil {
		return Response{Error: err.Error()}
	}
	d.logger.Debug("rpc handled", "method", MethodUpdate, "timer_id", t.ID)
	return d.status(nil)
}

// handleShutdown replies first and then stops the process (or just the
// socket when no shutdown hook is set).
func (d *Daemon) handleShutdown() Response {
	d.mu.RLock()
	fn := d.onShutdown
	d.mu.RUnlock()

	go func() {
		time.Sleep(shutdownDelay)
		if fn != nil {
			fn()
			return
		}
		_ = d.Stop()
	}()

	d.logger.Info("shutdown requested over socket")
	return Response{Result: "shutting down"}
}
