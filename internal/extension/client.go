package extension

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/gorilla/websocket"

	"github.com/dmitrijs2005/fakeye/internal/bridge"
	"github.com/dmitrijs2005/fakeye/internal/models"
)

// Client is the producer's connection to the host's bridge endpoint.
// Requests run strictly one at a time per connection (the protocol is a
// simple request/response alternation).
type Client struct {
	conn *websocket.Conn
}

// Dial connects to the bridge endpoint at addr (host:port).
func Dial(ctx context.Context, addr string) (*Client, error) {
	u := url.URL{Scheme: "ws", Host: addr, Path: "/bridge"}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to dial bridge at %s: %w", addr, err)
	}
	return &Client{conn: conn}, nil
}

// SyncData asks the host to run one reconciliation pass.
func (c *Client) SyncData(ctx context.Context) error {
	var resp bridge.SyncResponse
	if err := c.roundTrip(ctx, bridge.Request{Action: bridge.ActionSyncData}, &resp); err != nil {
		return err
	}
	if !resp.Success {
		return errors.New("sync rejected: " + resp.Error)
	}
	return nil
}

// LocalHistory fetches the host's current history collection.
func (c *Client) LocalHistory(ctx context.Context) ([]models.HistoryItem, error) {
	var resp bridge.HistoryResponse
	if err := c.roundTrip(ctx, bridge.Request{Action: bridge.ActionGetLocalHistory}, &resp); err != nil {
		return nil, err
	}
	if resp.Error != "" {
		return nil, errors.New("history request failed: " + resp.Error)
	}
	return resp.History, nil
}

func (c *Client) Close() error {
	return c.conn.Close()
}

func (c *Client) roundTrip(ctx context.Context, req bridge.Request, resp any) error {
	if deadline, ok := ctx.Deadline(); ok {
		_ = c.conn.SetWriteDeadline(deadline)
		_ = c.conn.SetReadDeadline(deadline)
	}

	if err := c.conn.WriteJSON(req); err != nil {
		return fmt.Errorf("failed to send %s: %w", req.Action, err)
	}
	if err := c.conn.ReadJSON(resp); err != nil {
		return fmt.Errorf("failed to read %s response: %w", req.Action, err)
	}
	return nil
}
