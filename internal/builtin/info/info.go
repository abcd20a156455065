// SPDX-License-Identifier: MPL-2.0

// Package info reports build and uptime details of the host process.
package info

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/modserver/modserver/pkg/modules"
)

// Name is the catalogue key.
const Name = "info"

// Report is the JSON document served at the mount root.
type Report struct {
	Name      string    `json:"name"`
	Version   string    `json:"version"`
	StartedAt time.Time `json:"started_at"`
	Uptime    string    `json:"uptime"`
}

// New returns the module. now is the clock used for uptime.
func New(version string, startedAt time.Time, now func() time.Time) modules.Module {
	return modules.New(Name, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		rep := Report{
			Name:      "modserver",
			Version:   version,
			StartedAt: startedAt.UTC(),
			Uptime:    now().Sub(startedAt).Round(time.Second).String(),
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(rep)
	}))
}
