package main

import (
	"testing"
	"time"
)

// The upload pipeline invokes up to three Python scripts sequentially, each
// allowed the full per-invocation timeout. The HTTP ceiling must cover that
// worst case so a slow-but-legal extraction agent is not cut off after text
// and vector ingestion already succeeded.
func TestRequestCeiling_CoversThreeSequentialScripts(t *testing.T) {
	perScript := 120 * time.Second
	ceiling := requestCeiling(perScript)

	if ceiling < 3*perScript {
		t.Fatalf("ceiling %s does not cover three sequential %s invocations", ceiling, perScript)
	}
	if ceiling == 3*perScript {
		t.Error("expected headroom beyond the script budget for parsing and persistence")
	}
}

func TestRequestCeiling_Default(t *testing.T) {
	if got, want := requestCeiling(120*time.Second), 390*time.Second; got != want {
		t.Errorf("requestCeiling(120s) = %s, want %s", got, want)
	}
}
