package services

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// multipartHeader builds a real *multipart.FileHeader around content, the way
// gin's FormFile would hand it to the extractors.
func multipartHeader(t *testing.T, filename, content string) *multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(MaxTemplateBytes+1024))

	return req.MultipartForm.File["file"][0]
}

func TestExtractTextFromTXTNormalizes(t *testing.T) {
	raw := "Convention de formation\r\n\r\n\r\n\r\nArticle 1 - Objet   \r\n\r\nLa formation dure 14 heures.\r\n"
	fh := multipartHeader(t, "convention.txt", raw)

	text, err := ExtractTextFromTXT(fh)
	require.NoError(t, err)
	assert.Equal(t, "Convention de formation\n\nArticle 1 - Objet\n\nLa formation dure 14 heures.", text)
}

func TestExtractRejectsOversizedTemplates(t *testing.T) {
	fh := multipartHeader(t, "huge.txt", strings.Repeat("x", MaxTemplateBytes+1))

	_, err := ExtractTextFromTXT(fh)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "template limit")
}

func TestNormalizeExtracted(t *testing.T) {
	assert.Equal(t, "", normalizeExtracted("   \n\n\t\n"))
	assert.Equal(t, "a\n\nb", normalizeExtracted("a\n\n\n\nb"))
	assert.Equal(t, "a\nb", normalizeExtracted("a  \nb\n"))
}
