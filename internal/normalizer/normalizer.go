// Package normalizer turns raw catalog text into the trimmed line sequence consumed by the parser.
package normalizer

import (
	"strings"

	"catalogreport/internal/models"
)

// Header is the token the first non-blank line of a catalog must contain.
const Header = "products:"

// Normalizer splits catalog text into lines and checks the header.
type Normalizer struct {
	header string
}

// NewNormalizer creates a normalizer expecting the standard header.
func NewNormalizer() *Normalizer {
	return &Normalizer{header: Header}
}

// Normalize returns the trimmed, non-blank lines following the header.
// Text with no non-blank lines yields an empty sequence and no error.
func (n *Normalizer) Normalize(text string) ([]string, error) {
	lines := Lines(text)
	if len(lines) == 0 {
		return nil, nil
	}

	if !strings.Contains(lines[0], n.header) {
		return nil, models.NewFormatError(models.NoLine, models.ErrMissingHeader, "")
	}

	return lines[1:], nil
}

// Lines splits text on line feeds, drops whitespace-only lines and trims the rest.
func Lines(text string) []string {
	var lines []string

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		lines = append(lines, trimmed)
	}

	return lines
}

// Normalize runs the default normalizer over text.
func Normalize(text string) ([]string, error) {
	return NewNormalizer().Normalize(text)
}
