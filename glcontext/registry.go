// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package glcontext

import (
	"cmp"
	"slices"

	"github.com/gogpu/gpucontext"
)

// Backend opens contexts of one kind (hardware GL, software).
type Backend interface {
	Open(opts ...Option) (*Context, error)
}

// BackendFunc adapts a function to Backend.
type BackendFunc func(opts ...Option) (*Context, error)

// Open calls f(opts...).
func (f BackendFunc) Open(opts ...Option) (*Context, error) { return f(opts...) }

// Standard backend names, highest priority first.
var backendPriority = []string{"gles", "soft"}

var backends = gpucontext.NewRegistry[Backend](gpucontext.WithPriority(backendPriority...))

// Register makes a backend available under name. Backends call it from
// init; registering an existing name replaces it.
func Register(name string, b Backend) {
	backends.Register(name, func() Backend { return b })
}

// Unregister removes a backend.
func Unregister(name string) {
	backends.Unregister(name)
}

// Backends returns the registered backend names in selection order.
func Backends() []string {
	names := backends.Available()
	slices.SortFunc(names, func(a, b string) int {
		pa, pb := priority(a), priority(b)
		if pa != pb {
			return pa - pb
		}
		return cmp.Compare(a, b)
	})
	return names
}

func priority(name string) int {
	if i := slices.Index(backendPriority, name); i >= 0 {
		return i
	}
	return len(backendPriority)
}

// Open opens a context on the named backend.
func Open(name string, opts ...Option) (*Context, error) {
	if !backends.Has(name) {
		return nil, &BackendNotFoundError{Name: name}
	}
	return backends.Get(name).Open(opts...)
}

// OpenBest opens a context on the first backend, in priority order, that
// succeeds.
func OpenBest(opts ...Option) (*Context, string, error) {
	var lastErr error
	for _, name := range Backends() {
		c, err := Open(name, opts...)
		if err == nil {
			return c, name, nil
		}
		lastErr = err
	}
	if lastErr != nil {
		return nil, "", lastErr
	}
	return nil, "", ErrNoBackendAvailable
}
