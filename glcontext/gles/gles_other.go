// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build !linux

package gles

import (
	"errors"
	"runtime"

	"github.com/gogpu/nodegl/glcontext"
)

// ErrUnsupportedPlatform is returned by Open outside Linux.
var ErrUnsupportedPlatform = errors.New("gles: backend unsupported on " + runtime.GOOS)

// Open reports ErrUnsupportedPlatform.
func Open(...glcontext.Option) (*glcontext.Context, error) {
	return nil, ErrUnsupportedPlatform
}
