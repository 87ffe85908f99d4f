// Package clipboard exchanges annotations and rendered images with the
// system clipboard. Annotations travel as snapshot JSON text.
package clipboard

import (
	"bytes"
	"errors"
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	"github.com/example/shineylabel/internal/annotation"
)

// ErrEmpty is returned when the clipboard holds nothing of the requested
// kind.
var ErrEmpty = errors.New("clipboard is empty")

// WriteAnnotations places anns on the clipboard as snapshot JSON.
func WriteAnnotations(anns []annotation.Annotation) error {
	data, err := encodeAnnotations(anns)
	if err != nil {
		return err
	}
	return WriteText(string(data))
}

// ReadAnnotations parses snapshot JSON from the clipboard. tempID names
// annotations that arrive without an ID.
func ReadAnnotations(tempID func() string) ([]annotation.Annotation, error) {
	text, err := ReadText()
	if err != nil {
		return nil, err
	}
	return decodeAnnotations([]byte(text), tempID)
}

func encodeAnnotations(anns []annotation.Annotation) ([]byte, error) {
	data, err := annotation.EncodeSnapshots(annotation.ToSnapshots(anns))
	if err != nil {
		return nil, fmt.Errorf("encode clipboard annotations: %w", err)
	}
	return data, nil
}

func decodeAnnotations(data []byte, tempID func() string) ([]annotation.Annotation, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmpty
	}
	snaps, err := annotation.DecodeSnapshots(data)
	if err != nil {
		return nil, fmt.Errorf("clipboard does not hold annotations: %w", err)
	}
	return annotation.FromSnapshots(snaps, tempID), nil
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodePNG(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, ErrEmpty
	}
	return imaging.Decode(bytes.NewReader(data))
}
