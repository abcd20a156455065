// SPDX-License-Identifier: MPL-2.0

package info

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/modserver/modserver/internal/testutil"
)

func TestInfo(t *testing.T) {
	t.Parallel()

	clock := testutil.NewFakeClock(time.Time{})
	started := clock.Now()
	clock.Advance(90 * time.Second)

	m := New("v1.2.3", started, clock.Now)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var rep Report
	if err := json.Unmarshal(rec.Body.Bytes(), &rep); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rep.Version != "v1.2.3" || rep.Name != "modserver" {
		t.Errorf("report = %+v", rep)
	}
	if rep.Uptime != "1m30s" {
		t.Errorf("uptime = %q, want 1m30s", rep.Uptime)
	}
	if !rep.StartedAt.Equal(started) {
		t.Errorf("started_at = %v, want %v", rep.StartedAt, started)
	}

	rec = httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("GET /x = %d, want 404", rec.Code)
	}
}
