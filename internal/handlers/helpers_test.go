package handlers

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func uploadedFileHeader(t *testing.T, filename string) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("images", filename)
	if err != nil {
		t.Fatalf("failed to build multipart body: %v", err)
	}
	if _, err := part.Write([]byte("image-bytes")); err != nil {
		t.Fatalf("failed to write multipart body: %v", err)
	}
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/", &buf)
	req.Header.Set(echo.HeaderContentType, writer.FormDataContentType())
	if err := req.ParseMultipartForm(32 << 20); err != nil {
		t.Fatalf("failed to parse multipart form: %v", err)
	}
	return req.MultipartForm.File["images"][0]
}

func TestSaveUploadReturnsMountedURL(t *testing.T) {
	// absolute storage dir; the returned URL must still be the static mount
	dir := t.TempDir()
	file := uploadedFileHeader(t, "cover.png")

	url, err := saveUpload(file, dir)
	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "/uploads/upload-"), url)
	assert.True(t, strings.HasSuffix(url, ".png"), url)
	assert.NotContains(t, url, dir)

	entries, err := os.ReadDir(dir)
	assert.NoError(t, err)
	if assert.Len(t, entries, 1) {
		assert.Equal(t, "/uploads/"+entries[0].Name(), url)
	}
}
