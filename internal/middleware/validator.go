package middleware

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Input validation and sanitization utilities

var allowedExtensions = map[string]bool{
	".pdf":  true,
	".docx": true,
	".doc":  true,
	".txt":  true,
}

// AllowedExtensions lists the accepted upload extensions, for error messages.
func AllowedExtensions() []string {
	return []string{".pdf", ".docx", ".doc", ".txt"}
}

// ValidateFileExtension checks that the uploaded file name carries a
// supported document extension
func ValidateFileExtension(filename string) error {
	if strings.TrimSpace(filename) == "" {
		return fmt.Errorf("file name is required")
	}
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExtensions[ext] {
		return fmt.Errorf("invalid file type %q (allowed: %s)", ext, strings.Join(AllowedExtensions(), ", "))
	}
	return nil
}

// SanitizeFileName strips directory components and dangerous characters
// from a client-provided file name
func SanitizeFileName(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))

	var result strings.Builder
	for _, r := range name {
		if r >= 32 && r != '/' {
			result.WriteRune(r)
		}
	}

	return strings.TrimSpace(result.String())
}

// SanitizeString removes dangerous characters from strings
func SanitizeString(input string) string {
	// Remove null bytes
	input = strings.ReplaceAll(input, "\x00", "")

	// Remove control characters
	var result strings.Builder
	for _, r := range input {
		if r >= 32 || r == '\t' || r == '\n' {
			result.WriteRune(r)
		}
	}

	return strings.TrimSpace(result.String())
}
