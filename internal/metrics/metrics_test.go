package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestRegisterIdempotent(t *testing.T) {
	reg := prometheus.NewRegistry()

	if err := Register(reg); err != nil {
		t.Fatalf("first Register failed: %v", err)
	}
	if err := Register(reg); err != nil {
		t.Fatalf("second Register failed: %v", err)
	}
	if err := Register(prometheus.NewRegistry()); err != nil {
		t.Fatalf("Register on fresh registry failed: %v", err)
	}
}
