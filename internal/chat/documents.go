package chat

import (
	"fmt"
	"strings"

	"github.com/gen2brain/go-fitz"
)

// ExtractText pulls analyzable text out of an uploaded attachment. PDFs are
// rendered page by page; text-like files are passed through. Binary formats
// we cannot read produce a short note so the provider can still acknowledge
// the upload.
func ExtractText(fileName, mimeType string, contents []byte) (string, error) {
	switch {
	case mimeType == "application/pdf":
		return pdfToText(contents)
	case strings.HasPrefix(mimeType, "text/"), mimeType == "application/json":
		return string(contents), nil
	default:
		return fmt.Sprintf("Received %s (%s). The file content could not be read directly; "+
			"acknowledge the upload and ask the user what they would like to know about it.", fileName, mimeType), nil
	}
}

func pdfToText(contents []byte) (string, error) {
	doc, err := fitz.NewFromMemory(contents)
	if err != nil {
		return "", fmt.Errorf("error opening pdf: %w", err)
	}
	defer doc.Close()

	var b strings.Builder
	for i := 0; i < doc.NumPage(); i++ {
		text, err := doc.Text(i)
		if err != nil {
			return "", fmt.Errorf("error extracting text from pdf page %d: %w", i, err)
		}
		b.WriteString(text)
		b.WriteString("\n\n")
	}

	return b.String(), nil
}
