package version

import (
	"strings"
	"testing"
)

func TestString(t *testing.T) {
	got := String("dstack-gateway")
	if !strings.HasPrefix(got, "dstack-gateway "+Version+" (commit="+GitCommit) {
		t.Fatalf("unexpected version string %q", got)
	}
}
