package daemon

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sourcegraph/jsonrpc2"

	"github.com/hyperpolymath/qed-ssg/pkg/protocol"
	"github.com/hyperpolymath/qed-ssg/pkg/version"
)

// Client speaks MCP to a running daemon.
type Client struct {
	conn *jsonrpc2.Conn
}

func Dial(ctx context.Context, socketPath string) (*Client, error) {
	nc, err := dial(ctx, socketPath)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon: %w", err)
	}

	// The server never calls back into the client.
	noop := jsonrpc2.HandlerWithError(func(context.Context, *jsonrpc2.Conn, *jsonrpc2.Request) (any, error) {
		return nil, nil
	})
	conn := jsonrpc2.NewConn(context.Background(), jsonrpc2.NewPlainObjectStream(nc), noop)
	return &Client{conn: conn}, nil
}

// Initialize performs the MCP handshake and sends the initialized notification.
func (c *Client) Initialize(ctx context.Context, clientName string) (protocol.InitializeResult, error) {
	var res protocol.InitializeResult
	params := protocol.InitializeParams{
		ProtocolVersion: version.ProtocolVersion,
		ClientInfo:      protocol.Implementation{Name: clientName, Version: version.Version},
	}
	if err := c.conn.Call(ctx, "initialize", params, &res); err != nil {
		return res, fmt.Errorf("initialize: %w", err)
	}
	if err := c.conn.Notify(ctx, "notifications/initialized", nil); err != nil {
		return res, fmt.Errorf("initialized notification: %w", err)
	}
	return res, nil
}

func (c *Client) Ping(ctx context.Context) error {
	var res json.RawMessage
	return c.conn.Call(ctx, "ping", nil, &res)
}

func (c *Client) ListTools(ctx context.Context) ([]protocol.Tool, error) {
	var res protocol.ListToolsResult
	if err := c.conn.Call(ctx, "tools/list", nil, &res); err != nil {
		return nil, err
	}
	return res.Tools, nil
}

func (c *Client) CallTool(ctx context.Context, name string, args json.RawMessage) (protocol.CallToolResult, error) {
	var res protocol.CallToolResult
	err := c.conn.Call(ctx, "tools/call", protocol.CallToolParams{Name: name, Arguments: args}, &res)
	return res, err
}

func (c *Client) Close() error {
	return c.conn.Close()
}
