// SPDX-License-Identifier: MPL-2.0

// Package cueutil validates user-supplied CUE documents against an embedded
// schema definition and decodes the result.
//
//	//go:embed config_schema.cue
//	var schema []byte
//
//	cfg, err := cueutil.Decode[map[string]any](schema, data, "#Config",
//	    cueutil.WithFilename("modserver.cue"))
//
// Errors carry the file name and the JSON-style path of the offending field.
package cueutil
