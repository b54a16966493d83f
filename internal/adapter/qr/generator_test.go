package qr_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srgjo27/event_ticket/internal/adapter/qr"
)

type fakeUploader struct {
	name string
	png  []byte
	err  error
}

func (f *fakeUploader) Upload(_ context.Context, name string, png []byte) (string, error) {
	f.name, f.png = name, png
	if f.err != nil {
		return "", f.err
	}
	return "https://img.example.com/" + name + ".png", nil
}

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

func TestGenerate(t *testing.T) {
	up := &fakeUploader{}
	gen := qr.NewGenerator(up, 0)

	url, err := gen.Generate(context.Background(), "APAE-1234ABCD")

	require.NoError(t, err)
	assert.Equal(t, "https://img.example.com/APAE-1234ABCD.png", url)
	assert.Equal(t, "APAE-1234ABCD", up.name)
	assert.True(t, bytes.HasPrefix(up.png, pngMagic))
}

func TestGenerate_UploadFails(t *testing.T) {
	gen := qr.NewGenerator(&fakeUploader{err: errors.New("quota exceeded")}, 128)

	_, err := gen.Generate(context.Background(), "APAE-1234ABCD")

	assert.ErrorContains(t, err, "quota exceeded")
}

func TestDataURLUploader(t *testing.T) {
	gen := qr.NewGenerator(qr.DataURLUploader{}, 64)

	url, err := gen.Generate(context.Background(), "APAE-1234ABCD")

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "data:image/png;base64,"))
}
