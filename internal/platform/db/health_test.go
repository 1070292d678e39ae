package db

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestHealthResponse_JSONShape(t *testing.T) {
	resp := healthResponse{
		Status: "healthy",
		Pool: PoolStats{
			TotalConns:    4,
			IdleConns:     2,
			AcquiredConns: 2,
			MaxConns:      20,
			AcquireCount:  120,
			AcquireWait:   "350ms",
		},
	}

	raw, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	body := string(raw)

	for _, key := range []string{`"status":"healthy"`, `"total_conns":4`, `"max_conns":20`, `"acquire_wait":"350ms"`} {
		if !strings.Contains(body, key) {
			t.Errorf("expected %s in %s", key, body)
		}
	}
	if strings.Contains(body, `"error"`) {
		t.Errorf("healthy response must omit the error field: %s", body)
	}
}

func TestHealthResponse_CarriesError(t *testing.T) {
	raw, err := json.Marshal(healthResponse{Status: "unhealthy", Error: "connection refused"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(raw), `"error":"connection refused"`) {
		t.Errorf("unhealthy response must carry the error: %s", raw)
	}
}
