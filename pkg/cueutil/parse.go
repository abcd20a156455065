// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// DefaultMaxFileSize caps documents passed to Decode (1 MiB).
const DefaultMaxFileSize int64 = 1 << 20

type (
	// Option configures Decode.
	Option func(*options)

	options struct {
		filename    string
		maxFileSize int64
		concrete    bool
	}
)

// WithFilename names the document in error messages.
func WithFilename(name string) Option {
	return func(o *options) { o.filename = name }
}

// WithMaxFileSize overrides DefaultMaxFileSize.
func WithMaxFileSize(n int64) Option {
	return func(o *options) { o.maxFileSize = n }
}

// WithConcrete requires every schema field to have a concrete value.
func WithConcrete() Option {
	return func(o *options) { o.concrete = true }
}

// Decode compiles schema, unifies data with the definition at def, validates
// the result and decodes it into a T.
func Decode[T any](schema, data []byte, def string, opts ...Option) (T, error) {
	var zero T

	o := options{filename: "<input>", maxFileSize: DefaultMaxFileSize}
	for _, opt := range opts {
		opt(&o)
	}

	if err := CheckFileSize(data, o.maxFileSize, o.filename); err != nil {
		return zero, err
	}

	ctx := cuecontext.New()

	schemaVal := ctx.CompileBytes(schema)
	if err := schemaVal.Err(); err != nil {
		return zero, fmt.Errorf("internal error: compiling schema: %w", err)
	}
	root := schemaVal.LookupPath(cue.ParsePath(def))
	if err := root.Err(); err != nil {
		return zero, fmt.Errorf("internal error: schema definition %s: %w", def, err)
	}

	userVal := ctx.CompileBytes(data, cue.Filename(o.filename))
	if err := userVal.Err(); err != nil {
		return zero, FormatError(err, o.filename)
	}

	unified := root.Unify(userVal)
	if err := unified.Validate(cue.Concrete(o.concrete)); err != nil {
		return zero, FormatError(err, o.filename)
	}

	var out T
	if err := unified.Decode(&out); err != nil {
		return zero, FormatError(err, o.filename)
	}
	return out, nil
}

// CheckFileSize fails when data is larger than maxSize bytes.
func CheckFileSize(data []byte, maxSize int64, filename string) error {
	if int64(len(data)) > maxSize {
		return fmt.Errorf("%s: file size %d bytes exceeds maximum %d bytes", filename, len(data), maxSize)
	}
	return nil
}
