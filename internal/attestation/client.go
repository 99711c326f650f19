package attestation

import (
	"context"
	"time"

	"github.com/aspect-build/dstack-gateway/internal/logx"
)

const (
	opGetQuote = "get_quote"
	opInfo     = "info"
)

// Client wraps an Agent with the gateway's error semantics. It holds no
// per-request state and is safe for concurrent use.
type Client struct {
	agent    Agent
	timeout  time.Duration
	observer Observer
}

type Option func(*Client)

// WithTimeout bounds every agent round trip. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

func WithObserver(o Observer) Option {
	return func(c *Client) { c.observer = o }
}

func NewClient(agent Agent, opts ...Option) *Client {
	c := &Client{agent: agent}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchQuote requests a fresh quote. Failures are returned as *AgentError and
// are never retried.
func (c *Client) FetchQuote(ctx context.Context) (QuoteResult, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	q, err := c.agent.GetQuote(ctx)
	if err != nil {
		c.observe(opGetQuote, OutcomeError)
		logx.Warnf("agent.get_quote failed: %v", err)
		return QuoteResult{}, &AgentError{Op: opGetQuote, Err: err}
	}
	c.observe(opGetQuote, OutcomeOK)
	logx.Debugf("agent.get_quote ok quote_len=%d event_log_len=%d", len(q.Quote), len(q.EventLog))
	return q, nil
}

// FetchAppCompose returns tcb_info.app_compose verbatim.
//
// A missing tcb_info, a missing app_compose and an explicit null all yield
// Found=false with a nil error. Only agent failures produce an error.
func (c *Client) FetchAppCompose(ctx context.Context) (AppComposeResult, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	info, err := c.agent.Info(ctx)
	if err != nil {
		c.observe(opInfo, OutcomeError)
		logx.Warnf("agent.info failed: %v", err)
		return AppComposeResult{}, &AgentError{Op: opInfo, Err: err}
	}

	if !info.TcbInfo.HasAppCompose() {
		c.observe(opInfo, OutcomeNotFound)
		logx.Debugf("agent.info tcb_info_present=%v app_compose_present=false", info.TcbInfo != nil)
		return AppComposeResult{}, nil
	}

	c.observe(opInfo, OutcomeOK)
	return AppComposeResult{Value: info.TcbInfo.AppCompose, Found: true}, nil
}

func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, c.timeout)
}

func (c *Client) observe(op string, outcome Outcome) {
	if c.observer != nil {
		c.observer.ObserveAgentCall(op, outcome)
	}
}
