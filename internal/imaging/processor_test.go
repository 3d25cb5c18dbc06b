// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package imaging

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

// createTestImage creates a simple test image with the given dimensions.
func createTestImage(width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestIsImage(t *testing.T) {
	tests := []struct {
		mimeType string
		want     bool
	}{
		{MimeTypeJPEG, true},
		{MimeTypePNG, true},
		{MimeTypeGIF, true},
		{MimeTypeWebP, true},
		{"application/pdf", false},
		{"image/tiff", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.mimeType, func(t *testing.T) {
			if got := IsImage(tt.mimeType); got != tt.want {
				t.Errorf("IsImage(%q) = %v, want %v", tt.mimeType, got, tt.want)
			}
		})
	}
}

func TestProcess_PNGKeepsFormat(t *testing.T) {
	p := NewProcessor(0, 0)
	res, err := p.Process(bytes.NewReader(encodePNG(t, createTestImage(40, 20))))
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if res.MimeType != MimeTypePNG || res.Ext != ".png" {
		t.Errorf("got %s %s", res.MimeType, res.Ext)
	}
	if res.Width != 40 || res.Height != 20 {
		t.Errorf("dimensions = %dx%d", res.Width, res.Height)
	}
	if DetectMimeType(res.Data) != MimeTypePNG {
		t.Error("output is not a PNG")
	}
}

func TestProcess_DownscalesLargeImages(t *testing.T) {
	p := NewProcessor(100, 80)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, createTestImage(400, 200), nil); err != nil {
		t.Fatal(err)
	}

	res, err := p.Process(&buf)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if res.Width != 100 || res.Height != 50 {
		t.Errorf("dimensions = %dx%d, want 100x50", res.Width, res.Height)
	}
	if res.MimeType != MimeTypeJPEG || res.Ext != ".jpg" {
		t.Errorf("got %s %s", res.MimeType, res.Ext)
	}
}

func TestProcess_RejectsNonImages(t *testing.T) {
	p := NewProcessor(0, 0)

	inputs := map[string][]byte{
		"pdf":  []byte("%PDF-1.7\n"),
		"tiff": {0x49, 0x49, 0x2A, 0x00, 0x08, 0x00, 0x00, 0x00},
		"text": []byte("hello"),
	}
	for name, data := range inputs {
		t.Run(name, func(t *testing.T) {
			if _, err := p.Process(bytes.NewReader(data)); !errors.Is(err, ErrUnsupportedFormat) {
				t.Errorf("err = %v, want ErrUnsupportedFormat", err)
			}
		})
	}
}

func TestApplyOrientation(t *testing.T) {
	img := createTestImage(30, 10)

	tests := []struct {
		orientation   int
		width, height int
	}{
		{1, 30, 10},
		{3, 30, 10},
		{6, 10, 30},
		{8, 10, 30},
	}
	for _, tt := range tests {
		b := applyOrientation(img, tt.orientation).Bounds()
		if b.Dx() != tt.width || b.Dy() != tt.height {
			t.Errorf("orientation %d: %dx%d, want %dx%d", tt.orientation, b.Dx(), b.Dy(), tt.width, tt.height)
		}
	}
}
