// SPDX-License-Identifier: MPL-2.0

package echo

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
)

func TestEcho(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		method   string
		body     string
		wantCode int
	}{
		{"object", http.MethodPost, `{"a":1,"b":["x"]}`, http.StatusOK},
		{"scalar", http.MethodPost, `"hi"`, http.StatusOK},
		{"malformed", http.MethodPost, `{"a":`, http.StatusBadRequest},
		{"trailing", http.MethodPost, `{} {}`, http.StatusBadRequest},
		{"empty", http.MethodPost, ``, http.StatusBadRequest},
		{"get", http.MethodGet, ``, http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := httptest.NewRecorder()
			req := httptest.NewRequest(tt.method, "/", strings.NewReader(tt.body))
			New().Handler().ServeHTTP(rec, req)

			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d (body %q)", rec.Code, tt.wantCode, rec.Body.String())
			}
			if tt.wantCode != http.StatusOK {
				return
			}

			var sent, got any
			if err := json.Unmarshal([]byte(tt.body), &sent); err != nil {
				t.Fatalf("test body is not JSON: %v", err)
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
				t.Fatalf("response is not JSON: %v", err)
			}
			if !reflect.DeepEqual(sent, got) {
				t.Errorf("echoed %v, want %v", got, sent)
			}
		})
	}
}

func TestEcho_AllowHeader(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	New().Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/", nil))
	if got := rec.Header().Get("Allow"); got != http.MethodPost {
		t.Errorf("Allow = %q, want POST", got)
	}
}
