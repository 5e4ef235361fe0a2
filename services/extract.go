package services

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"mime/multipart"
	"strings"

	"github.com/ledongthuc/pdf"
)

// MaxTemplateBytes caps how much of an uploaded template is read for text
// extraction. Templates are convention sheets and attestation letters, a few
// pages each; anything bigger is rejected rather than buffered.
const MaxTemplateBytes = 20 << 20

func readTemplate(r io.Reader, name string) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxTemplateBytes+1))
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", name, err)
	}
	if len(data) > MaxTemplateBytes {
		return nil, fmt.Errorf("%s exceeds the %dMB template limit", name, MaxTemplateBytes>>20)
	}
	return data, nil
}

// normalizeExtracted trims trailing whitespace per line and collapses runs of
// blank lines. Stored text feeds template search and Gemini prompts, where
// layout padding is just noise.
func normalizeExtracted(s string) string {
	lines := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	out := make([]string, 0, len(lines))
	blank := false
	for _, line := range lines {
		line = strings.TrimRight(line, " \t")
		if line == "" {
			if blank {
				continue
			}
			blank = true
		} else {
			blank = false
		}
		out = append(out, line)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}

func ExtractTextFromPDF(file multipart.File) (string, error) {
	data, err := readTemplate(file, "PDF upload")
	if err != nil {
		return "", err
	}

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("cannot open PDF reader: %w", err)
	}

	var textBuilder bytes.Buffer
	pages := reader.NumPage()
	for i := 1; i <= pages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		textBuilder.WriteString(content)
		textBuilder.WriteString("\n")
	}

	return normalizeExtracted(textBuilder.String()), nil
}

func ExtractTextFromDOCX(fileHeader *multipart.FileHeader) (string, error) {
	src, err := fileHeader.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	data, err := readTemplate(src, fileHeader.Filename)
	if err != nil {
		return "", err
	}

	// .docx is a zip with the text body in word/document.xml
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("cannot open %s as docx: %w", fileHeader.Filename, err)
	}

	var docFile *zip.File
	for _, f := range r.File {
		if f.Name == "word/document.xml" {
			docFile = f
			break
		}
	}
	if docFile == nil {
		return "", fmt.Errorf("word/document.xml not found in %s", fileHeader.Filename)
	}

	rc, err := docFile.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	// Collect the <w:t> text nodes; a paragraph end becomes a line break so
	// convention templates keep their clause structure.
	var buf bytes.Buffer
	decoder := xml.NewDecoder(rc)
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
		switch el := tok.(type) {
		case xml.StartElement:
			if el.Name.Local == "t" {
				var text string
				if err := decoder.DecodeElement(&text, &el); err == nil {
					buf.WriteString(text)
				}
			}
		case xml.EndElement:
			if el.Name.Local == "p" {
				buf.WriteString("\n")
			}
		}
	}

	return normalizeExtracted(buf.String()), nil
}

func ExtractTextFromTXT(fileHeader *multipart.FileHeader) (string, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return "", err
	}
	defer file.Close()

	data, err := readTemplate(file, fileHeader.Filename)
	if err != nil {
		return "", err
	}

	return normalizeExtracted(string(data)), nil
}
