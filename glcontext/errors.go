// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package glcontext

import (
	"errors"
	"fmt"
)

// Errors.
var (
	// ErrNoBackendAvailable is returned when no backend could be opened.
	ErrNoBackendAvailable = errors.New("glcontext: no backend available")

	// ErrUnsupportedFormat is returned for formats with no OpenGL mapping.
	ErrUnsupportedFormat = errors.New("glcontext: unsupported format")

	// ErrPlatform is the sentinel wrapped by every PlatformError.
	ErrPlatform = errors.New("glcontext: platform call failed")

	// ErrNoTextureCache is returned when a pixel buffer needs the
	// platform texture cache and the context has none.
	ErrNoTextureCache = errors.New("glcontext: no texture cache")
)

// BackendNotFoundError is returned when a requested backend is not registered.
type BackendNotFoundError struct {
	Name string
}

func (e *BackendNotFoundError) Error() string {
	return fmt.Sprintf("glcontext: backend %q not found", e.Name)
}

// PlatformError reports a failing platform API call (texture cache, pixel
// buffer lock) together with the platform status code.
type PlatformError struct {
	Op   string
	Code int
}

func (e *PlatformError) Error() string {
	return fmt.Sprintf("glcontext: %s failed with code %d", e.Op, e.Code)
}

// Unwrap returns ErrPlatform.
func (e *PlatformError) Unwrap() error { return ErrPlatform }

// GLError is a latched glGetError value.
type GLError uint32

func (e GLError) Error() string {
	switch uint32(e) {
	case INVALID_ENUM:
		return "gl: invalid enum"
	case INVALID_VALUE:
		return "gl: invalid value"
	case INVALID_OPERATION:
		return "gl: invalid operation"
	case INVALID_FRAMEBUFFER_OPERATION:
		return "gl: invalid framebuffer operation"
	case OUT_OF_MEMORY:
		return "gl: out of memory"
	}
	return fmt.Sprintf("gl: error 0x%04x", uint32(e))
}

// CheckError returns the pending GL error, if any.
func (c *Context) CheckError() error {
	if code := c.Funcs.GetError(); code != NO_ERROR {
		return GLError(code)
	}
	return nil
}
