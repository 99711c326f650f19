package attestation

import "fmt"

// AgentError reports that the attestation agent could not be reached, failed
// internally, or returned a response the gateway could not decode.
type AgentError struct {
	Op  string
	Err error
}

func (e *AgentError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("dstack %s failed", e.Op)
	}
	return e.Err.Error()
}

func (e *AgentError) Unwrap() error { return e.Err }
