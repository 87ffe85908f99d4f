package annotation

import (
	"fmt"
	"os"
)

// ReadFile loads the snapshot JSON at path. A missing file reads as no
// annotations.
func ReadFile(path string, tempID func() string) ([]Annotation, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	snaps, err := DecodeSnapshots(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return FromSnapshots(snaps, tempID), nil
}

// WriteFile stores anns at path as a snapshot JSON array, replacing the file
// only once the new content is fully written.
func WriteFile(path string, anns []Annotation) error {
	data, err := EncodeSnapshots(ToSnapshots(anns))
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}
