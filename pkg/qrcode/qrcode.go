// Package qrcode renders product codes as PNG files under a public directory.
package qrcode

import (
	"errors"
	"fmt"
	"image/png"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/qr"
	"github.com/google/uuid"
)

const DefaultSize = 256

type Writer struct {
	dir  string
	size int
}

func NewWriter(dir string) *Writer {
	return &Writer{dir: dir, size: DefaultSize}
}

// Dir is where the PNG files are written.
func (w *Writer) Dir() string { return w.dir }

// Write encodes content as a QR PNG with a random file name and returns that name.
func (w *Writer) Write(content string) (string, error) {
	code, err := qr.Encode(content, qr.M, qr.Auto)
	if err != nil {
		return "", fmt.Errorf("encode qr: %w", err)
	}
	code, err = barcode.Scale(code, w.size, w.size)
	if err != nil {
		return "", fmt.Errorf("scale qr: %w", err)
	}

	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", err
	}

	name := uuid.NewString() + ".png"
	f, err := os.Create(filepath.Join(w.dir, name))
	if err != nil {
		return "", err
	}
	if err := png.Encode(f, code); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("write png: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return name, nil
}

// Remove deletes a file written by Write. A missing file is not an error.
func (w *Writer) Remove(name string) error {
	if name == "" {
		return nil
	}
	err := os.Remove(filepath.Join(w.dir, filepath.Base(name)))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
