package utils

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	storage "github.com/supabase-community/storage-go"
)

// UploadTemplateToSupabase uploads a document template (.pdf, .docx, .txt) to
// Supabase Storage under uploads/templates/<fileID>.<ext> and returns the
// public URL.
func UploadTemplateToSupabase(fileHeader *multipart.FileHeader, fileID string) (string, error) {
	supabaseURL := os.Getenv("SUPABASE_URL")
	supabaseKey := os.Getenv("SUPABASE_KEY")

	storageClient := storage.NewClient(supabaseURL+"/storage/v1", supabaseKey, nil)

	file, err := fileHeader.Open()
	if err != nil {
		return "", err
	}
	defer file.Close()

	ext := filepath.Ext(fileHeader.Filename)
	objectPath := fmt.Sprintf("templates/%s%s", fileID, ext)

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, file); err != nil {
		return "", err
	}

	contentType := fileHeader.Header.Get("Content-Type")
	options := storage.FileOptions{
		ContentType: &contentType,
	}

	if _, err := storageClient.UploadFile("uploads", objectPath, &buf, options); err != nil {
		return "", err
	}

	publicURL := fmt.Sprintf("%s/storage/v1/object/public/uploads/%s", supabaseURL, objectPath)
	return publicURL, nil
}

// DeleteFileFromSupabase takes a public URL containing "/storage/v1/object/"
// and deletes the object it points at. Needs SUPABASE_URL and SUPABASE_KEY
// (a key with delete rights) in the environment.
func DeleteFileFromSupabase(publicURL string) error {
	if publicURL == "" {
		return nil
	}

	supabaseURL := os.Getenv("SUPABASE_URL")
	supabaseKey := os.Getenv("SUPABASE_KEY")
	if supabaseURL == "" || supabaseKey == "" {
		return fmt.Errorf("SUPABASE_URL or SUPABASE_KEY not configured")
	}

	idx := strings.Index(publicURL, "/storage/v1/object/")
	if idx == -1 {
		return fmt.Errorf("cannot locate object path in URL: %s", publicURL)
	}

	rest := publicURL[idx+len("/storage/v1/object/"):]
	rest = strings.TrimPrefix(rest, "public/")

	// rest => "<bucket>/<path/to/object...>"
	parts := strings.SplitN(rest, "/", 2)
	if len(parts) < 2 {
		return fmt.Errorf("cannot parse bucket/object from URL: %s", publicURL)
	}
	bucket := parts[0]
	object := parts[1]
	if qIdx := strings.Index(object, "?"); qIdx != -1 {
		object = object[:qIdx]
	}
	if u, err := url.PathUnescape(object); err == nil {
		object = u
	}

	deleteURL := fmt.Sprintf("%s/storage/v1/object/%s/%s", strings.TrimRight(supabaseURL, "/"), bucket, object)

	req, err := http.NewRequest("DELETE", deleteURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+supabaseKey)
	req.Header.Set("apikey", supabaseKey)

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("Supabase delete failed: status=%d body=%s", resp.StatusCode, string(body))
	}
	return nil
}
