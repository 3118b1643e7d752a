// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package imaging stores uploaded archive images. Images are decoded,
// auto-rotated from their EXIF orientation, re-encoded without metadata and
// written next to a bounded thumbnail.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/webp" // WebP decoder

	"github.com/olegiv/darchive/internal/model"
	"github.com/olegiv/darchive/internal/util"
)

// Upload layout below the uploads directory and URL prefix.
const (
	OriginalsDir = "images"
	ThumbsDir    = "thumbs"

	ThumbnailWidth  = 400
	ThumbnailHeight = 400

	// MaxPixels bounds the decoded size of an upload. Compressed formats can
	// expand far beyond the byte limit.
	MaxPixels = 40_000_000

	jpegQuality = 90
)

var (
	// ErrUnsupportedFormat is returned for anything but JPEG, PNG, GIF and WebP.
	ErrUnsupportedFormat = errors.New("unsupported image format")
	// ErrTooLarge is returned when the upload exceeds the size limit.
	ErrTooLarge = errors.New("image exceeds upload size limit")
)

// Processor writes images under dir and reports URLs under urlPrefix.
type Processor struct {
	dir       string
	urlPrefix string
}

// NewProcessor creates a processor rooted at dir. Files are served from
// urlPrefix, e.g. "/uploads".
func NewProcessor(dir, urlPrefix string) *Processor {
	return &Processor{
		dir:       dir,
		urlPrefix: strings.TrimSuffix(urlPrefix, "/"),
	}
}

// Dir returns the uploads directory.
func (p *Processor) Dir() string {
	return p.dir
}

// Store reads at most maxBytes from r and saves the image and its thumbnail.
func (p *Processor) Store(r io.Reader, maxBytes int64) (model.UploadResult, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return model.UploadResult{}, fmt.Errorf("reading upload: %w", err)
	}
	if int64(len(data)) > maxBytes {
		return model.UploadResult{}, ErrTooLarge
	}

	format := detectFormat(data)
	if format == "" {
		return model.UploadResult{}, ErrUnsupportedFormat
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return model.UploadResult{}, fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		return model.UploadResult{}, fmt.Errorf("%w: %dx%d pixels", ErrTooLarge, cfg.Width, cfg.Height)
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return model.UploadResult{}, fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}
	img = applyOrientation(img, readExifOrientation(bytes.NewReader(data)))

	name := uuid.NewString() + extensionFor(format)

	original, err := encodeImage(img, format)
	if err != nil {
		return model.UploadResult{}, fmt.Errorf("encoding image: %w", err)
	}
	if err := p.write(OriginalsDir, name, original); err != nil {
		return model.UploadResult{}, err
	}

	thumb, err := encodeImage(imaging.Fit(img, ThumbnailWidth, ThumbnailHeight, imaging.Lanczos), format)
	if err == nil {
		err = p.write(ThumbsDir, name, thumb)
	}
	if err != nil {
		if rmErr := p.Remove(p.url(OriginalsDir, name)); rmErr != nil {
			err = errors.Join(err, rmErr)
		}
		return model.UploadResult{}, fmt.Errorf("storing thumbnail: %w", err)
	}

	bounds := img.Bounds()
	return model.UploadResult{
		URL:          p.url(OriginalsDir, name),
		ThumbnailURL: p.url(ThumbsDir, name),
		Width:        bounds.Dx(),
		Height:       bounds.Dy(),
	}, nil
}

// Remove deletes the files behind an URL returned by Store. URLs that do not
// point into the uploads directory are ignored.
func (p *Processor) Remove(imageURL string) error {
	prefix := p.urlPrefix + "/" + OriginalsDir + "/"
	if !strings.HasPrefix(imageURL, prefix) {
		return nil
	}
	name := path.Base(imageURL)

	for _, sub := range []string{OriginalsDir, ThumbsDir} {
		target, err := util.SafeJoinPath(p.dir, sub, name)
		if err != nil {
			return err
		}
		if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("removing %s: %w", target, err)
		}
	}
	return nil
}

func (p *Processor) url(sub, name string) string {
	return p.urlPrefix + "/" + sub + "/" + name
}

func (p *Processor) write(sub, name string, data []byte) error {
	dir, err := util.SafeJoinPath(p.dir, sub)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}
	target := filepath.Join(dir, filepath.Base(name))
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", target, err)
	}
	return nil
}

// readExifOrientation returns 1 when the orientation cannot be read.
func readExifOrientation(r io.Reader) int {
	x, err := exif.Decode(r)
	if err != nil {
		return 1
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}
	orientation, err := tag.Int(0)
	if err != nil {
		return 1
	}
	return orientation
}

func applyOrientation(img image.Image, orientation int) image.Image {
	switch orientation {
	case 2:
		return imaging.FlipH(img)
	case 3:
		return imaging.Rotate180(img)
	case 4:
		return imaging.FlipV(img)
	case 5:
		return imaging.FlipH(imaging.Rotate270(img))
	case 6:
		return imaging.Rotate270(img)
	case 7:
		return imaging.FlipH(imaging.Rotate90(img))
	case 8:
		return imaging.Rotate90(img)
	default:
		return img
	}
}

// encodeImage writes WebP input as JPEG since there is no pure Go encoder.
func encodeImage(img image.Image, format string) ([]byte, error) {
	var buf bytes.Buffer
	var err error
	switch format {
	case "png":
		err = png.Encode(&buf, img)
	case "gif":
		err = gif.Encode(&buf, img, nil)
	default:
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality})
	}
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// detectFormat sniffs data. TIFF is rejected outright (CVE-2023-36308).
func detectFormat(data []byte) string {
	contentType := http.DetectContentType(data)
	switch {
	case strings.Contains(contentType, "tiff"):
		return ""
	case strings.Contains(contentType, "jpeg"):
		return "jpeg"
	case strings.Contains(contentType, "png"):
		return "png"
	case strings.Contains(contentType, "gif"):
		return "gif"
	case strings.Contains(contentType, "webp"):
		return "webp"
	}
	return ""
}

func extensionFor(format string) string {
	switch format {
	case "png":
		return ".png"
	case "gif":
		return ".gif"
	}
	return ".jpg"
}
