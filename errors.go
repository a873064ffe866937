package nodegl

import (
	"errors"
	"fmt"

	"github.com/gogpu/nodegl/glcontext"
)

// Error classes. Failures returned by nodegl wrap one of these.
var (
	// ErrConfig reports invalid node parameters. It aborts the affected
	// subtree only.
	ErrConfig = errors.New("nodegl: invalid configuration")

	// ErrResource reports a failure to create GPU objects or sub-graphs.
	// No partially created object survives it.
	ErrResource = errors.New("nodegl: resource allocation failed")

	// ErrUnsupportedFormat reports a decoded frame or platform buffer
	// format with no upload pipeline.
	ErrUnsupportedFormat = glcontext.ErrUnsupportedFormat

	// ErrPlatform reports a failing platform API call. Use errors.As with
	// *glcontext.PlatformError to read the platform status code.
	ErrPlatform = glcontext.ErrPlatform

	// ErrIncompleteFramebuffer reports a framebuffer that failed its
	// completeness check.
	ErrIncompleteFramebuffer = errors.New("nodegl: framebuffer is not complete")

	// ErrState reports a lifecycle operation invoked in the wrong state.
	ErrState = errors.New("nodegl: invalid node state")

	// ErrClosed is returned by a Context after Close.
	ErrClosed = errors.New("nodegl: context closed")
)

// ConfigError describes an invalid parameter of one node.
type ConfigError struct {
	Node   string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("nodegl: %s: %s", e.Node, e.Reason)
}

// Unwrap returns ErrConfig.
func (e *ConfigError) Unwrap() error { return ErrConfig }

func configErrorf(n *Node, format string, args ...any) error {
	return &ConfigError{Node: n.String(), Reason: fmt.Sprintf(format, args...)}
}

// StateError reports a lifecycle call made in the wrong state.
type StateError struct {
	Node  string
	Op    string
	State State
}

func (e *StateError) Error() string {
	return fmt.Sprintf("nodegl: %s: cannot %s in state %s", e.Node, e.Op, e.State)
}

// Unwrap returns ErrState.
func (e *StateError) Unwrap() error { return ErrState }
