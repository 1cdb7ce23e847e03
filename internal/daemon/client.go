package daemon

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"syscall"
	"time"
)

// DefaultClientTimeout is the default timeout for client operations.
const DefaultClientTimeout = 5 * time.Second

// ErrNotRunning is returned when no racetimer instance is listening on the socket.
var ErrNotRunning = errors.New("racetimer not running")

// Client connects to a running racetimer via its Unix socket.
type Client struct {
	sockPath string
	timeout  time.Duration
}

// NewClient creates a new daemon client.
func NewClient(sockPath string) *Client {
	return &Client{
		sockPath: sockPath,
		timeout:  DefaultClientTimeout,
	}
}

// SetTimeout sets the timeout for client operations.
func (c *Client) SetTimeout(d time.Duration) {
	c.timeout = d
}

// call sends a JSON-RPC request and returns the response.
func (c *Client) call(method string, params any) (*Response, error) {
	conn, err := net.DialTimeout("unix", c.sockPath, c.timeout)
	if err != nil {
		return nil, c.wrapConnError(err)
	}
	defer func() { _ = conn.Close() }()

	if err := conn.SetDeadline(time.Now().Add(c.timeout)); err != nil {
		return nil, fmt.Errorf("set deadline: %w", err)
	}

	req := Request{Method: method, Params: params}
	if err := json.NewEncoder(conn).Encode(req); err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}

	var resp Response
	if err := json.NewDecoder(conn).Decode(&resp); err != nil {
		return nil, fmt.Errorf("read response: %w", c.wrapConnError(err))
	}

	if resp.Error != "" {
		return nil, fmt.Errorf("daemon error: %s", resp.Error)
	}

	return &resp, nil
}

// callStatus performs a call whose result is a StatusResponse.
func (c *Client) callStatus(method string, params any) (*StatusResponse, error) {
	resp, err := c.call(method, params)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(resp.Result)
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}

	var status StatusResponse
	if err := json.Unmarshal(data, &status); err != nil {
		return nil, fmt.Errorf("unmarshal status: %w", err)
	}
	return &status, nil
}

// wrapConnError converts connection errors to user-friendly messages.
func (c *Client) wrapConnError(err error) error {
	var sysErr syscall.Errno
	if errors.As(err, &sysErr) {
		switch sysErr {
		case syscall.ENOENT:
			return fmt.Errorf("%w (socket not found)", ErrNotRunning)
		case syscall.ECONNREFUSED:
			return fmt.Errorf("%w (connection refused)", ErrNotRunning)
		}
	}

	if os.IsNotExist(err) {
		return fmt.Errorf("%w (socket not found)", ErrNotRunning)
	}

	if errors.Is(err, os.ErrDeadlineExceeded) {
		return errors.New("daemon request timed out")
	}

	return fmt.Errorf("connect to daemon: %w", err)
}

// Status returns the race snapshot.
func (c *Client) Status() (*StatusResponse, error) {
	return c.callStatus(MethodStatus, nil)
}

// Add creates one timer per duration in seconds.
func (c *Client) Add(durations ...int) (*StatusResponse, error) {
	return c.callStatus(MethodAdd, AddParams{Durations: durations})
}

// Start begins a synchronized race.
func (c *Client) Start() (*StatusResponse, error) {
	return c.callStatus(MethodStart, nil)
}

// Pause freezes the race.
func (c *Client) Pause() (*StatusResponse, error) {
	return c.callStatus(MethodPause, nil)
}

// Resume continues a paused race.
func (c *Client) Resume() (*StatusResponse, error) {
	return c.callStatus(MethodResume, nil)
}

// Stop interrupts the race and zeroes elapsed time.
func (c *Client) Stop() (*StatusResponse, error) {
	return c.callStatus(MethodStop, nil)
}

// Reset clears elapsed and configured time of every timer.
func (c *Client) Reset() (*StatusResponse, error) {
	return c.callStatus(MethodReset, nil)
}

// Restart restarts the race from zero with the configured durations.
func (c *Client) Restart() (*StatusResponse, error) {
	return c.callStatus(MethodRestart, nil)
}

// Update changes the duration of the timer whose id starts with id.
func (c *Client) Update(id string, seconds int) (*StatusResponse, error) {
	return c.callStatus(MethodUpdate, UpdateParams{ID: id, Duration: seconds})
}

// DeleteAll removes every timer.
func (c *Client) DeleteAll() (*StatusResponse, error) {
	return c.callStatus(MethodDeleteAll, nil)
}

// Shutdown asks the running instance to exit.
func (c *Client) Shutdown() error {
	_, err := c.call(MethodShutdown, nil)
	return err
}

// IsRunning checks if the daemon is running by attempting to connect.
func (c *Client) IsRunning() bool {
	conn, err := net.DialTimeout("unix", c.sockPath, time.Second)
	if err != nil {
		return false
	}
	_ = conn.Close()
	return true
}
