package metrics

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestCollectorSnapshot(t *testing.T) {
	c := New()
	c.Record(http.StatusOK, 10*time.Millisecond)
	c.Record(http.StatusConflict, 20*time.Millisecond)
	c.Record(http.StatusInternalServerError, 30*time.Millisecond)
	c.RecordTransition("contract", "ok")
	c.RecordTransition("contract", "ok")
	c.RecordTransition("payment", "role_not_allowed")

	snap := c.Snapshot()
	if snap["requestsTotal"].(uint64) != 3 {
		t.Fatalf("unexpected total %v", snap["requestsTotal"])
	}
	if snap["clientErrorsTotal"].(uint64) != 1 || snap["serverErrorsTotal"].(uint64) != 1 {
		t.Fatalf("unexpected error counts %v", snap)
	}
	if snap["avgDurationMs"].(float64) != 20 {
		t.Fatalf("unexpected average %v", snap["avgDurationMs"])
	}
	transitions := snap["transitions"].(map[string]uint64)
	if transitions["contract.ok"] != 2 || transitions["payment.role_not_allowed"] != 1 {
		t.Fatalf("unexpected transitions %v", transitions)
	}
}

func TestHandlerServesJSON(t *testing.T) {
	c := New()
	c.Record(http.StatusOK, time.Millisecond)
	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["requestsTotal"].(float64) != 1 {
		t.Fatalf("unexpected body %v", body)
	}
}
