package attestation

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeTcbInfo(t *testing.T) {
	tcb, err := decodeTcbInfo("")
	require.NoError(t, err)
	assert.Nil(t, tcb)

	tcb, err = decodeTcbInfo("null")
	require.NoError(t, err)
	assert.Nil(t, tcb)

	tcb, err = decodeTcbInfo(`{"mrtd":"00","rtmr0":"11"}`)
	require.NoError(t, err)
	require.NotNil(t, tcb)
	assert.False(t, tcb.HasAppCompose())

	tcb, err = decodeTcbInfo(`{"mrtd":"00","app_compose":null}`)
	require.NoError(t, err)
	assert.False(t, tcb.HasAppCompose())

	tcb, err = decodeTcbInfo(`{"app_compose":{"name":"app1","services":{"web":{"image":"nginx"}}}}`)
	require.NoError(t, err)
	require.True(t, tcb.HasAppCompose())
	assert.JSONEq(t, `{"name":"app1","services":{"web":{"image":"nginx"}}}`, string(tcb.AppCompose))

	_, err = decodeTcbInfo("not json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode tcb_info")
}

// newFakeDstack serves the dstack guest agent HTTP API used by the SDK in
// simulator mode.
func newFakeDstack(t *testing.T, quoteHex, eventLog, tcbInfo string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.HasSuffix(r.URL.Path, "GetQuote"):
			_ = json.NewEncoder(w).Encode(map[string]any{
				"quote":       quoteHex,
				"event_log":   eventLog,
				"report_data": "",
			})
		case strings.HasSuffix(r.URL.Path, "Info"):
			_ = json.NewEncoder(w).Encode(map[string]any{
				"app_id":      "app-1",
				"instance_id": "inst-1",
				"app_cert":    "",
				"tcb_info":    tcbInfo,
				"app_name":    "demo",
			})
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestDstackAgent_AgainstFakeEndpoint(t *testing.T) {
	srv := newFakeDstack(t, "0a0b0c", `[{"event":"boot"}]`, `{"app_compose":"{\"name\":\"app1\"}"}`)
	agent := NewDstackAgent(srv.URL)

	q, err := agent.GetQuote(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "0a0b0c", q.Quote)
	assert.Equal(t, `[{"event":"boot"}]`, q.EventLog)

	info, err := agent.Info(context.Background())
	require.NoError(t, err)
	require.True(t, info.TcbInfo.HasAppCompose())
	assert.Equal(t, `"{\"name\":\"app1\"}"`, string(info.TcbInfo.AppCompose))
}

func TestDstackAgent_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	agent := NewDstackAgent(url)
	_, err := agent.GetQuote(context.Background())
	require.Error(t, err)
	_, err = agent.Info(context.Background())
	require.Error(t, err)
}
