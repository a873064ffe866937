// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package frame defines the decoded frame record handed to the texture
// upload subsystem, together with the platform buffer contracts carried in
// a frame's Data field.
//
// The Data field's concrete type depends on PixelFormat:
//
//	PixelFormatRGBA, PixelFormatBGRA  []byte (Linesize bytes per row)
//	PixelFormatFloat                  []byte (little-endian float32)
//	PixelFormatMediaCodec             MediaCodecBuffer
//	PixelFormatVideoToolbox           PixelBuffer
package frame

import (
	"errors"
	"fmt"
)

// PixelFormat identifies the layout of a decoded frame.
type PixelFormat int

const (
	// PixelFormatRGBA is packed 8-bit RGBA in CPU memory.
	PixelFormatRGBA PixelFormat = iota
	// PixelFormatBGRA is packed 8-bit BGRA in CPU memory.
	PixelFormatBGRA
	// PixelFormatFloat is one 32-bit float per texel, as produced by
	// audio sample or spectrum sources.
	PixelFormatFloat
	// PixelFormatMediaCodec is an Android hardware decoder output buffer.
	PixelFormatMediaCodec
	// PixelFormatVideoToolbox is an Apple CoreVideo pixel buffer.
	PixelFormatVideoToolbox
)

// String returns the format name.
func (f PixelFormat) String() string {
	switch f {
	case PixelFormatRGBA:
		return "rgba"
	case PixelFormatBGRA:
		return "bgra"
	case PixelFormatFloat:
		return "float"
	case PixelFormatMediaCodec:
		return "mediacodec"
	case PixelFormatVideoToolbox:
		return "videotoolbox"
	default:
		return fmt.Sprintf("PixelFormat(%d)", int(f))
	}
}

// Frame is one decoded picture. A Frame is immutable for the duration of
// an upload call.
type Frame struct {
	PixelFormat PixelFormat
	Width       int
	Height      int
	// Linesize is the row stride in bytes. Decoders may pad rows, so
	// Linesize can exceed Width*4 for packed formats.
	Linesize int
	Data     any
}

// Bytes returns the CPU pixel data of a packed frame.
func (f *Frame) Bytes() ([]byte, error) {
	b, ok := f.Data.([]byte)
	if !ok {
		return nil, fmt.Errorf("%w: %s frame carries %T", ErrDataType, f.PixelFormat, f.Data)
	}
	return b, nil
}

// PixelBuffer returns the platform pixel buffer of a VideoToolbox frame.
func (f *Frame) PixelBuffer() (PixelBuffer, error) {
	pb, ok := f.Data.(PixelBuffer)
	if !ok {
		return nil, fmt.Errorf("%w: %s frame carries %T", ErrDataType, f.PixelFormat, f.Data)
	}
	return pb, nil
}

// MediaCodecBuffer returns the decoder output buffer of a MediaCodec frame.
func (f *Frame) MediaCodecBuffer() (MediaCodecBuffer, error) {
	b, ok := f.Data.(MediaCodecBuffer)
	if !ok {
		return nil, fmt.Errorf("%w: %s frame carries %T", ErrDataType, f.PixelFormat, f.Data)
	}
	return b, nil
}

// ErrDataType is returned when a frame's Data does not match its format.
var ErrDataType = errors.New("frame: data does not match pixel format")

// Source produces frames for a presentation time in seconds. A nil frame
// with a nil error means there is no new picture for t.
type Source interface {
	Frame(t float64) (*Frame, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(t float64) (*Frame, error)

// Frame calls f(t).
func (f SourceFunc) Frame(t float64) (*Frame, error) { return f(t) }
