package imageio

import (
	"bytes"
	"image"
	"io"

	"github.com/fogleman/gg"
)

// SavePNG writes img to a PNG file
func SavePNG(path string, img image.Image) error {
	return gg.SavePNG(path, img)
}

// EncodePNG writes img as PNG to w
func EncodePNG(w io.Writer, img image.Image) error {
	return gg.NewContextForImage(img).EncodePNG(w)
}

// PNGBytes returns the PNG encoding of img
func PNGBytes(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := EncodePNG(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
