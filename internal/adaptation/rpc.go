package adaptation

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"cloudproxy/internal/services"
)

// RPCMethod is the JSON-RPC method served by the adaptation socket.
const RPCMethod = "Adaptation.Process"

// RPCClient reaches the adaptation service over JSON-RPC on a Unix socket.
type RPCClient struct {
	socket         string
	connectTimeout time.Duration

	mu     sync.Mutex
	client *rpc.Client
}

// NewRPCClient constructs a socket-backed adaptation client. Connect must be
// called before Request.
func NewRPCClient(socket string, connectTimeout time.Duration) *RPCClient {
	return &RPCClient{
		socket:         strings.TrimSpace(socket),
		connectTimeout: connectTimeout,
	}
}

// Connect dials the service socket.
func (c *RPCClient) Connect(ctx context.Context) error {
	if c.socket == "" {
		return services.Wrap(services.ErrConnectivity, "connected", "connect", "adaptation socket not configured", nil)
	}
	dialCtx, cancel := connectContext(ctx, c.connectTimeout)
	defer cancel()

	var dialer net.Dialer
	conn, err := dialer.DialContext(dialCtx, "unix", c.socket)
	if err != nil {
		return services.Wrap(services.ErrConnectivity, "connected", "connect", "dial adaptation socket", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.client != nil {
		_ = c.client.Close()
	}
	c.client = rpc.NewClientWithCodec(jsonrpc.NewClientCodec(conn))
	return nil
}

// Request issues one Adaptation.Process call. When ctx ends first the call is
// abandoned and ctx's error is returned; the reply, if any, is discarded when
// the client is closed.
func (c *RPCClient) Request(ctx context.Context, id uuid.UUID, originalPath, rebuiltPath string) (Result, error) {
	c.mu.Lock()
	client := c.client
	c.mu.Unlock()
	if client == nil {
		return Result{}, services.Wrap(services.ErrConnectivity, "requesting", "request", "client not connected", nil)
	}

	req := ProcessRequest{
		FileID:       id.String(),
		OriginalPath: originalPath,
		RebuiltPath:  rebuiltPath,
	}
	var resp ProcessResponse
	call := client.Go(RPCMethod, req, &resp, make(chan *rpc.Call, 1))

	select {
	case <-ctx.Done():
		return Result{}, ctx.Err()
	case done := <-call.Done:
		if done.Error != nil {
			return Result{}, services.Wrap(services.ErrProcessing, "requesting", "request", "adaptation call failed", done.Error)
		}
		return resultFromResponse(resp), nil
	}
}

// Close tears down the connection. Safe to call more than once.
func (c *RPCClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.client == nil {
		return nil
	}
	err := c.client.Close()
	c.client = nil
	if err != nil && !errors.Is(err, rpc.ErrShutdown) {
		return fmt.Errorf("close adaptation client: %w", err)
	}
	return nil
}
