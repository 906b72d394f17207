// Package export writes the canvas in the formats offered by the Export
// dialog.
package export

import (
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"

	"LocalPaint/internal/logx"
)

// ErrUnknownFormat is returned for file extensions no encoder handles.
var ErrUnknownFormat = errors.New("export: unknown format")

type Format int

const (
	PNG Format = iota
	JPEG
	BMP
	PDF
)

// JPEGQuality is used for every JPEG export.
const JPEGQuality = 90

func (f Format) String() string {
	switch f {
	case PNG:
		return "png"
	case JPEG:
		return "jpeg"
	case BMP:
		return "bmp"
	case PDF:
		return "pdf"
	}
	return "unknown"
}

// Extensions lists the file extensions accepted by FormatFromPath.
var Extensions = []string{".png", ".jpg", ".jpeg", ".bmp", ".pdf"}

// FormatFromPath picks the format from the file extension, ignoring case.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return PNG, nil
	case ".jpg", ".jpeg":
		return JPEG, nil
	case ".bmp":
		return BMP, nil
	case ".pdf":
		return PDF, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, filepath.Ext(path))
}

// Encode writes img to w in format f.
func Encode(w io.Writer, img image.Image, f Format) error {
	var err error
	switch f {
	case PNG:
		err = png.Encode(w, img)
	case JPEG:
		err = jpeg.Encode(w, img, &jpeg.Options{Quality: JPEGQuality})
	case BMP:
		err = bmp.Encode(w, img)
	case PDF:
		return EncodePDF(w, img)
	default:
		return fmt.Errorf("%w: %d", ErrUnknownFormat, int(f))
	}
	if err != nil {
		return fmt.Errorf("export: %s: %w", f, err)
	}
	return nil
}

// File writes img to path in the format implied by its extension.
func File(path string, img image.Image) (err error) {
	f, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("export: %w", cerr)
		}
	}()

	if err := Encode(out, img, f); err != nil {
		return err
	}
	logx.Logger().Info("export: wrote canvas", "path", path, "format", f.String())
	return nil
}
