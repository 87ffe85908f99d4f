//go:build cgo

package imagesrc

import (
	"image"
	"os"

	"github.com/chai2010/webp"
)

func init() {
	encoders[".webp"] = saveWebP
}

func saveWebP(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := webp.Encode(f, img, &webp.Options{Lossless: true}); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
