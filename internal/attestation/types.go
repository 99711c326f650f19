package attestation

import (
	"bytes"
	"encoding/json"
)

// QuoteResult is a fresh quote and event log as reported by the dstack guest agent.
//
// Quote is hex-encoded, matching the agent's own wire encoding. EventLog is the
// serialized event log passed through untouched.
type QuoteResult struct {
	Quote    string `json:"quote"`
	EventLog string `json:"event_log"`
}

// InfoResult is the subset of the agent Info() response the gateway reads.
// Everything else the agent reports is discarded.
type InfoResult struct {
	// TcbInfo is nil when the agent reported no TCB info.
	TcbInfo *TcbInfo
}

// TcbInfo is the decoded tcb_info descriptor. Only app_compose is kept.
type TcbInfo struct {
	AppCompose json.RawMessage `json:"app_compose,omitempty"`
}

// HasAppCompose reports whether a manifest is present. An explicit JSON null
// counts as absent.
func (t *TcbInfo) HasAppCompose() bool {
	if t == nil {
		return false
	}
	v := bytes.TrimSpace(t.AppCompose)
	return len(v) > 0 && !bytes.Equal(v, []byte("null"))
}

// AppComposeResult is the outcome of a successful manifest lookup.
// Found is false when the agent legitimately has no manifest configured.
type AppComposeResult struct {
	Value json.RawMessage
	Found bool
}
