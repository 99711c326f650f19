package attestation

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	dstacksdk "github.com/Dstack-TEE/dstack/sdk/go/dstack"
)

// DstackAgent talks to the dstack guest agent through the dstack Go SDK.
type DstackAgent struct {
	client *dstacksdk.DstackClient
}

// NewDstackAgent builds an agent binding. An empty endpoint lets the SDK pick
// DSTACK_SIMULATOR_ENDPOINT or the default /var/run/dstack.sock.
func NewDstackAgent(endpoint string) *DstackAgent {
	opts := []dstacksdk.DstackClientOption{}
	if endpoint != "" {
		opts = append(opts, dstacksdk.WithEndpoint(endpoint))
	}
	return &DstackAgent{client: dstacksdk.NewDstackClient(opts...)}
}

func (a *DstackAgent) GetQuote(ctx context.Context) (QuoteResult, error) {
	resp, err := a.client.GetQuote(ctx, nil)
	if err != nil {
		return QuoteResult{}, fmt.Errorf("dstack get quote: %w", err)
	}
	return QuoteResult{
		Quote:    hex.EncodeToString(resp.Quote),
		EventLog: resp.EventLog,
	}, nil
}

func (a *DstackAgent) Info(ctx context.Context) (InfoResult, error) {
	info, err := a.client.Info(ctx)
	if err != nil {
		return InfoResult{}, fmt.Errorf("dstack info: %w", err)
	}
	tcb, err := decodeTcbInfo(info.TcbInfo)
	if err != nil {
		return InfoResult{}, err
	}
	return InfoResult{TcbInfo: tcb}, nil
}

// decodeTcbInfo parses the agent's JSON-encoded tcb_info string. An empty
// string or a JSON null means no TCB info.
func decodeTcbInfo(raw string) (*TcbInfo, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "null" {
		return nil, nil
	}
	var tcb TcbInfo
	if err := json.Unmarshal([]byte(raw), &tcb); err != nil {
		return nil, fmt.Errorf("decode tcb_info: %w", err)
	}
	return &tcb, nil
}
