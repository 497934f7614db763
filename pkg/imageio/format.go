package imageio

import (
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Format is an output image container
type Format string

const (
	FormatPNG Format = "png"
	FormatPPM Format = "ppm"
)

// ParseFormat accepts "png" or "ppm" in any case
func ParseFormat(name string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimPrefix(name, "."))) {
	case FormatPNG:
		return FormatPNG, nil
	case FormatPPM:
		return FormatPPM, nil
	}
	return "", fmt.Errorf("unsupported image format %q", name)
}

// FormatFromPath picks the format from a file extension, defaulting to PNG
func FormatFromPath(path string) Format {
	if f, err := ParseFormat(filepath.Ext(path)); err == nil {
		return f
	}
	return FormatPNG
}

// ContentType returns the MIME type of the format
func (f Format) ContentType() string {
	if f == FormatPPM {
		return "image/x-portable-pixmap"
	}
	return "image/png"
}

// Save writes img to path in the given format, creating parent directories
func Save(path string, img image.Image, format Format) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	switch format {
	case FormatPNG:
		return SavePNG(path, img)
	case FormatPPM:
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		if err := WritePPM(f, img); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	}
	return fmt.Errorf("unsupported image format %q", format)
}

// Encode writes img to w in the given format
func Encode(w io.Writer, img image.Image, format Format) error {
	switch format {
	case FormatPNG:
		return EncodePNG(w, img)
	case FormatPPM:
		return WritePPM(w, img)
	}
	return fmt.Errorf("unsupported image format %q", format)
}
