// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package imaging decodes a freshly selected image in-process and turns it
// into a small data URL that can be displayed before anything is uploaded.
// JPEG, PNG, GIF and WebP sources are supported.
package imaging

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const (
	// MaxPixels rejects decompression bombs before the full decode.
	MaxPixels = 50_000_000

	// DefaultPreviewWidth is the width previews are downsized to.
	DefaultPreviewWidth = 640

	previewQuality = 80
)

// ErrTooLarge is returned for images above MaxPixels.
var ErrTooLarge = errors.New("image too large")

// PreviewDataURL decodes data and returns a JPEG data URL no wider than
// maxWidth, preserving the aspect ratio. Images already narrow enough are
// re-encoded at their original size. A non-positive maxWidth uses
// DefaultPreviewWidth.
func PreviewDataURL(data []byte, maxWidth int) (string, error) {
	if maxWidth <= 0 {
		maxWidth = DefaultPreviewWidth
	}

	// Decode config first to check dimensions without a full decode.
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("decode config: %w", err)
	}
	if int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		return "", fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrTooLarge, cfg.Width, cfg.Height, MaxPixels)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}

	out, err := resize(img, maxWidth)
	if err != nil {
		return "", err
	}
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(out), nil
}

// resize scales img down to maxWidth using CatmullRom and encodes it as JPEG.
func resize(img image.Image, maxWidth int) ([]byte, error) {
	bounds := img.Bounds()
	newWidth, newHeight := bounds.Dx(), bounds.Dy()
	if newWidth > maxWidth {
		ratio := float64(maxWidth) / float64(newWidth)
		newWidth = maxWidth
		newHeight = max(1, int(float64(newHeight)*ratio))
	}

	// Draw onto white so transparent PNG/GIF regions do not turn black.
	dst := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: previewQuality}); err != nil {
		return nil, fmt.Errorf("encode preview: %w", err)
	}
	return buf.Bytes(), nil
}
