// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package imaging sniffs uploaded images and produces JPEG thumbnails for
// the submission gallery. Decoding covers JPEG, PNG, GIF and WebP; scaling
// uses golang.org/x/image/draw so no cgo image library is required.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"net/http"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const (
	// ThumbWidth is the widest thumbnail produced.
	ThumbWidth = 480
	// thumbQuality is the JPEG quality of thumbnails.
	thumbQuality = 80
	// ThumbSuffix replaces the extension of the original key.
	ThumbSuffix = "_thumb.jpg"
)

// ErrNoThumbnail is returned when the source is already narrow enough;
// callers fall back to the original URL.
var ErrNoThumbnail = errors.New("imaging: source narrower than thumbnail")

// Format describes an accepted upload type.
type Format struct {
	ContentType string
	Ext         string
}

// formats maps sniffed content types to storage extensions.
var formats = map[string]Format{
	"image/jpeg": {ContentType: "image/jpeg", Ext: "jpg"},
	"image/png":  {ContentType: "image/png", Ext: "png"},
	"image/gif":  {ContentType: "image/gif", Ext: "gif"},
	"image/webp": {ContentType: "image/webp", Ext: "webp"},
}

// Sniff detects the type of data from its leading bytes and reports
// whether it is an accepted image format.
func Sniff(data []byte) (Format, bool) {
	f, ok := formats[http.DetectContentType(data)]
	return f, ok
}

// Thumbnail decodes src and returns a JPEG no wider than maxWidth,
// keeping the aspect ratio. Sources at or below maxWidth return
// ErrNoThumbnail to avoid upscaling.
func Thumbnail(src []byte, maxWidth int) ([]byte, error) {
	if maxWidth <= 0 {
		maxWidth = ThumbWidth
	}

	img, _, err := image.Decode(bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("imaging: decode: %w", err)
	}

	b := img.Bounds()
	if b.Dx() <= maxWidth {
		return nil, ErrNoThumbnail
	}
	height := b.Dy() * maxWidth / b.Dx()
	if height < 1 {
		height = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, maxWidth, height))
	// JPEG has no alpha; flatten transparent areas onto white.
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: thumbQuality}); err != nil {
		return nil, fmt.Errorf("imaging: encode: %w", err)
	}
	return buf.Bytes(), nil
}
