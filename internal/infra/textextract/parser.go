package textextract

import (
	"fmt"
	"path/filepath"
	"strings"

	domain "github.com/bryanwahyu/contract-compliance/internal/domain/analysis"
)

// Parser implements the DocumentParser port. It dispatches on the file
// extension to a PDF, Word or plain-text backend and normalizes whatever
// comes out; an extraction that yields only whitespace is a parsing error.
type Parser struct{}

func New() *Parser { return &Parser{} }

func (Parser) Parse(path string) (string, error) {
	var (
		text string
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		text, err = extractPDF(path)
	case ".docx", ".doc":
		text, err = extractWord(path)
	default:
		text, err = extractPlain(path)
	}
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", domain.ErrParsing, filepath.Base(path), err)
	}

	cleaned := domain.Normalize(text)
	if cleaned == "" {
		return "", fmt.Errorf("%w: no text content in %s", domain.ErrParsing, filepath.Base(path))
	}
	return cleaned, nil
}
