package adaptation

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"cloudproxy/internal/config"
	"cloudproxy/internal/outcome"
)

// Result is the service's verdict for one request.
type Result struct {
	Outcome outcome.Outcome
	Detail  string
}

// Client is the adaptation service capability used by one cycle.
//
// Request blocks until the service answers or ctx is done. Close may be called
// after a cancelled Request and must release every resource the client holds.
type Client interface {
	Connect(ctx context.Context) error
	Request(ctx context.Context, id uuid.UUID, originalPath, rebuiltPath string) (Result, error)
	Close() error
}

// Factory yields a fresh Client for each cycle.
type Factory func() (Client, error)

// New builds the client selected by cfg.Adaptation.Transport.
func New(cfg *config.Config) (Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("adaptation client requires configuration")
	}
	connectTimeout := cfg.ConnectTimeout()
	switch strings.ToLower(strings.TrimSpace(cfg.Adaptation.Transport)) {
	case config.TransportRPC:
		return NewRPCClient(cfg.Adaptation.Socket, connectTimeout), nil
	case config.TransportHTTP, "":
		return NewHTTPClient(cfg.Adaptation.URL, cfg.Adaptation.APIKey, connectTimeout, http.DefaultClient), nil
	default:
		return nil, fmt.Errorf("unsupported adaptation transport %q", cfg.Adaptation.Transport)
	}
}

// NewFactory returns a Factory bound to cfg.
func NewFactory(cfg *config.Config) Factory {
	return func() (Client, error) {
		return New(cfg)
	}
}

func resultFromResponse(resp ProcessResponse) Result {
	return Result{
		Outcome: outcome.ParseFileOutcome(string(resp.Outcome)),
		Detail:  strings.TrimSpace(resp.Detail),
	}
}

// connectContext bounds ctx by the connect timeout when one is configured.
func connectContext(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}
