package attestation

import "context"

// Agent is the local attestation agent as seen by the gateway.
//
// The production implementation is DstackAgent, talking to the dstack guest
// agent over /var/run/dstack.sock (or DSTACK_SIMULATOR_ENDPOINT).
type Agent interface {
	GetQuote(ctx context.Context) (QuoteResult, error)
	Info(ctx context.Context) (InfoResult, error)
}

// Outcome labels an agent round trip for observers.
type Outcome string

const (
	OutcomeOK       Outcome = "ok"
	OutcomeNotFound Outcome = "not_found"
	OutcomeError    Outcome = "error"
)

// Observer is notified once per agent round trip.
type Observer interface {
	ObserveAgentCall(op string, outcome Outcome)
}
