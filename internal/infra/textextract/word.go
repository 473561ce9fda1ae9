package textextract

import (
	"os"
	"strings"

	"github.com/fumiama/go-docx"
)

func extractWord(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", err
	}

	doc, err := docx.Parse(f, info.Size())
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for _, item := range doc.Document.Body.Items {
		switch block := item.(type) {
		case *docx.Paragraph:
			if text := block.String(); strings.TrimSpace(text) != "" {
				b.WriteString(text)
				b.WriteByte('\n')
			}
		case *docx.Table:
			b.WriteString(block.String())
			b.WriteByte('\n')
		}
	}
	return b.String(), nil
}
