// SPDX-License-Identifier: MPL-2.0

// Package echo returns the JSON document it was sent.
package echo

import (
	"encoding/json"
	"net/http"

	"github.com/modserver/modserver/pkg/modules"
)

const (
	// Name is the catalogue key.
	Name = "echo"

	maxBody = 1 << 20
)

// New returns the echo module. It accepts POST with a JSON body, answers 405
// for other methods and 400 for a body that is not JSON.
func New() modules.Module {
	return modules.New(Name, http.HandlerFunc(serve))
}

func serve(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var doc any
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody))
	if err := dec.Decode(&doc); err != nil {
		http.Error(w, "invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}
	if dec.More() {
		http.Error(w, "invalid JSON: trailing data", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(doc)
}
