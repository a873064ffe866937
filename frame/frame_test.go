// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package frame

import (
	"errors"
	"testing"
)

func TestFrameBytes(t *testing.T) {
	f := &Frame{PixelFormat: PixelFormatRGBA, Width: 1, Height: 1, Linesize: 4, Data: []byte{1, 2, 3, 4}}
	b, err := f.Bytes()
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}
	if len(b) != 4 {
		t.Errorf("len = %d, want 4", len(b))
	}
}

func TestFrameDataMismatch(t *testing.T) {
	f := &Frame{PixelFormat: PixelFormatVideoToolbox, Data: []byte{0}}
	if _, err := f.PixelBuffer(); !errors.Is(err, ErrDataType) {
		t.Errorf("PixelBuffer err = %v, want ErrDataType", err)
	}
	if _, err := f.MediaCodecBuffer(); !errors.Is(err, ErrDataType) {
		t.Errorf("MediaCodecBuffer err = %v, want ErrDataType", err)
	}
	f = &Frame{PixelFormat: PixelFormatRGBA}
	if _, err := f.Bytes(); !errors.Is(err, ErrDataType) {
		t.Errorf("Bytes err = %v, want ErrDataType", err)
	}
}

func TestPixelFormatString(t *testing.T) {
	tests := []struct {
		f    PixelFormat
		want string
	}{
		{PixelFormatRGBA, "rgba"},
		{PixelFormatBGRA, "bgra"},
		{PixelFormatFloat, "float"},
		{PixelFormatMediaCodec, "mediacodec"},
		{PixelFormatVideoToolbox, "videotoolbox"},
		{PixelFormat(42), "PixelFormat(42)"},
	}
	for _, tt := range tests {
		if got := tt.f.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", int(tt.f), got, tt.want)
		}
	}
}

func TestSourceFunc(t *testing.T) {
	var got float64
	src := SourceFunc(func(ts float64) (*Frame, error) {
		got = ts
		return nil, nil
	})
	if _, err := src.Frame(1.5); err != nil {
		t.Fatal(err)
	}
	if got != 1.5 {
		t.Errorf("t = %v, want 1.5", got)
	}
}
