package relay

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Censor rewrites relay output: every loaded credit word is replaced with
// the configured replacement, and a fixed signature is appended.
type Censor struct {
	words       []string
	replacement string
	signature   string
}

// NewCensor builds a Censor over an ordered word list.
func NewCensor(words []string, replacement, signature string) *Censor {
	return &Censor{
		words:       words,
		replacement: replacement,
		signature:   signature,
	}
}

// Apply substitutes credit words in order and appends the signature.
func (c *Censor) Apply(text string) string {
	for _, word := range c.words {
		if word == "" {
			continue
		}
		text = strings.ReplaceAll(text, word, c.replacement)
	}
	if c.signature != "" {
		text += "\n\n" + c.signature
	}
	return text
}

// LoadWords reads a newline-delimited word list. Blank lines are dropped;
// line order is preserved because substitution is order-sensitive.
func LoadWords(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open word list %q: %w", path, err)
	}
	defer f.Close() //nolint:errcheck

	var words []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		words = append(words, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read word list %q: %w", path, err)
	}
	return words, nil
}
