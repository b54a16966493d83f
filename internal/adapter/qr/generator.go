// Package qr renders ticket codes as PNG QR images and hosts them.
package qr

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/skip2/go-qrcode"
)

const DefaultSize = 256

// Uploader stores a rendered image and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, name string, png []byte) (string, error)
}

type Generator struct {
	uploader Uploader
	size     int
}

func NewGenerator(uploader Uploader, size int) *Generator {
	if size <= 0 {
		size = DefaultSize
	}
	return &Generator{uploader: uploader, size: size}
}

func (g *Generator) Generate(ctx context.Context, code string) (string, error) {
	png, err := qrcode.Encode(code, qrcode.Medium, g.size)
	if err != nil {
		return "", fmt.Errorf("encode qr for %s: %w", code, err)
	}

	url, err := g.uploader.Upload(ctx, code, png)
	if err != nil {
		return "", fmt.Errorf("upload qr for %s: %w", code, err)
	}

	return url, nil
}

// DataURLUploader inlines the image as a data URL. Used when no image host is configured.
type DataURLUploader struct{}

func (DataURLUploader) Upload(_ context.Context, _ string, png []byte) (string, error) {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
