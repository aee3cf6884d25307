package batch

import (
	"fmt"
	"os"
	"strings"

	"codeberg.org/snonux/wordcard/internal/session"
)

// ReadWordFile reads the words to print from a file.
// Supports:
// - one or more words per line, separated by commas or spaces
// - comments starting with '#', on their own line or after the words
// Words are lowercased; repeated words are returned once in first-seen order.
func ReadWordFile(filename string) ([]string, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}
	return ParseWords(string(content)), nil
}

// ParseWords extracts the words from the contents of a word file
func ParseWords(content string) []string {
	var words []string
	seen := make(map[string]bool)

	for _, line := range strings.Split(content, "\n") {
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		for _, w := range session.Tokenize(line) {
			if seen[w] {
				continue
			}
			seen[w] = true
			words = append(words, w)
		}
	}
	return words
}
