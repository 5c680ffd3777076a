package validation

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func uploadHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("images", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File["images"][0]
}

func TestValidateFile(t *testing.T) {
	assert.NoError(t, ValidateFile(uploadHeader(t, "photo.PNG", pngHeader), ImageConstraints))

	err := ValidateFile(uploadHeader(t, "photo.png", []byte("just text")), ImageConstraints)
	assert.ErrorContains(t, err, "upload a valid image")

	err = ValidateFile(uploadHeader(t, "photo.exe", pngHeader), ImageConstraints)
	assert.ErrorContains(t, err, "not allowed")

	small := ImageConstraints
	small.MaxSize = 4
	err = ValidateFile(uploadHeader(t, "photo.png", pngHeader), small)
	assert.ErrorContains(t, err, "file too large")
}

func TestImageExtension(t *testing.T) {
	assert.Equal(t, ".jpg", ImageExtension(&multipart.FileHeader{Filename: "a.JPEG"}))
	assert.Equal(t, ".png", ImageExtension(&multipart.FileHeader{Filename: "a.png"}))
}
