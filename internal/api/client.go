package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/jmylchreest/tinctd/internal/wallpaper"
)

// ErrNotRunning is returned when no daemon answers at the configured address.
var ErrNotRunning = errors.New("tinctd daemon is not running")

// Client talks to a running daemon.
type Client struct {
	base *url.URL
	http *http.Client
}

// NewClient creates a client for addr ("host:port" or a full http URL).
func NewClient(addr string) (*Client, error) {
	if !strings.Contains(addr, "://") {
		addr = "http://" + addr
	}
	base, err := url.Parse(addr)
	if err != nil {
		return nil, fmt.Errorf("invalid API address: %w", err)
	}
	return &Client{
		base: base,
		http: &http.Client{Timeout: 10 * time.Minute},
	}, nil
}

func (c *Client) endpoint(path string) string {
	u := *c.base
	u.Path = strings.TrimSuffix(u.Path, "/") + path
	return u.String()
}

func (c *Client) do(ctx context.Context, method, path string, body any) (wallpaper.State, error) {
	var st wallpaper.State

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return st, err
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path), reader)
	if err != nil {
		return st, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return st, fmt.Errorf("%w: %v", ErrNotRunning, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var e errorResponse
		_ = json.NewDecoder(resp.Body).Decode(&e)
		if resp.StatusCode == http.StatusConflict {
			return st, wallpaper.ErrBusy
		}
		if e.Error == "" {
			e.Error = resp.Status
		}
		return st, fmt.Errorf("daemon returned %d: %s", resp.StatusCode, e.Error)
	}

	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		return st, fmt.Errorf("failed to decode response: %w", err)
	}
	return st, nil
}

// State fetches the daemon state.
func (c *Client) State(ctx context.Context) (wallpaper.State, error) {
	return c.do(ctx, http.MethodGet, "/api/state", nil)
}

// SetWallpaper asks the daemon to apply path.
func (c *Client) SetWallpaper(ctx context.Context, path string) (wallpaper.State, error) {
	return c.do(ctx, http.MethodPost, "/api/wallpaper", wallpaperRequest{Path: path})
}

// Rotate asks the daemon to switch to a random wallpaper.
func (c *Client) Rotate(ctx context.Context) (wallpaper.State, error) {
	return c.do(ctx, http.MethodPost, "/api/rotate", nil)
}

// SetDarkMode switches the daemon's mode.
func (c *Client) SetDarkMode(ctx context.Context, dark bool) (wallpaper.State, error) {
	return c.do(ctx, http.MethodPost, "/api/mode", modeRequest{Dark: &dark})
}

// Events streams daemon events to fn until ctx is cancelled or the
// connection drops.
func (c *Client) Events(ctx context.Context, fn func(wallpaper.Event)) error {
	u := *c.base
	u.Scheme = strings.Replace(u.Scheme, "http", "ws", 1)
	u.Path = strings.TrimSuffix(u.Path, "/") + "/api/events"

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNotRunning, err)
	}
	defer conn.Close()

	stop := context.AfterFunc(ctx, func() {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
		conn.Close()
	})
	defer stop()

	for {
		var ev wallpaper.Event
		if err := conn.ReadJSON(&ev); err != nil {
			if ctx.Err() != nil || websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return fmt.Errorf("event stream closed: %w", err)
		}
		fn(ev)
	}
}
