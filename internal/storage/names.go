package storage

import (
	"path/filepath"
	"strings"
	"unicode"

	"github.com/google/uuid"
)

const (
	imageExt        = ".png"
	maxPromptPrefix = 50
)

// NewImageName derives a file name from the prompt: the first 50 characters
// with spaces turned into underscores, plus a short random suffix.
func NewImageName(prompt string) string {
	runes := []rune(prompt)
	if len(runes) > maxPromptPrefix {
		runes = runes[:maxPromptPrefix]
	}

	var b strings.Builder
	for _, r := range runes {
		switch {
		case r == ' ':
			b.WriteByte('_')
		case r == '-' || r == '_' || r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			b.WriteRune(r)
		}
	}

	prefix := b.String()
	if prefix == "" {
		prefix = "house"
	}
	return prefix + "_" + uuid.NewString()[:8] + imageExt
}

// ValidateName rejects names that could escape the image directory.
func ValidateName(name string) error {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return ErrInvalidName
	}
	if strings.ContainsAny(name, `/\`) || filepath.Ext(name) != imageExt {
		return ErrInvalidName
	}
	return nil
}
