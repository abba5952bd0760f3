// Package jsonrepair extracts and parses the JSON object a language model
// was asked to produce. Model output is never assumed to be clean JSON: it
// may be wrapped in prose or markdown fencing, and often carries small
// formatting defects (single quotes, trailing commas, bare keys).
package jsonrepair

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/tripflow/tripflow/internal/app/models"
)

var (
	bareKeyRe       = regexp.MustCompile(`(\w+)\s*:`)
	trailingCommaRe = regexp.MustCompile(`,\s*([}\]])`)
	whitespaceRe    = regexp.MustCompile(`\s+`)
	quoteReplacer   = strings.NewReplacer(`'`, `"`, "“", `"`, "”", `"`)
)

// Extract returns the first brace-delimited span of raw: from the first '{'
// to the last '}'. Markdown code fences are stripped beforehand.
func Extract(raw string) (string, error) {
	raw = stripCodeFences(raw)

	first := strings.Index(raw, "{")
	last := strings.LastIndex(raw, "}")
	if first == -1 || last == -1 || last < first {
		return "", models.ErrNoJSONFound
	}
	return raw[first : last+1], nil
}

// DecodeInto extracts the JSON span from raw and unmarshals it into v. When
// the strict parse fails, the repair passes are applied once, in order, and
// a single re-parse is attempted. Repairs never run on a successful parse,
// so valid payloads cannot be corrupted.
func DecodeInto(raw string, v any) error {
	span, err := Extract(raw)
	if err != nil {
		return err
	}

	if err := json.Unmarshal([]byte(span), v); err == nil {
		return nil
	}

	if err := json.Unmarshal([]byte(Repair(span)), v); err != nil {
		return fmt.Errorf("%w: %v", models.ErrUnparsableJSON, err)
	}
	return nil
}

// Parse decodes the JSON object embedded in raw into a generic map.
func Parse(raw string) (map[string]any, error) {
	var out map[string]any
	if err := DecodeInto(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Repair applies the textual repair passes in their fixed order: quote bare
// keys, normalize quote characters, remove trailing commas, collapse
// whitespace runs.
func Repair(s string) string {
	s = QuoteBareKeys(s)
	s = NormalizeQuotes(s)
	s = StripTrailingCommas(s)
	s = CollapseWhitespace(s)
	return s
}

// QuoteBareKeys wraps a word immediately preceding a colon in double quotes.
func QuoteBareKeys(s string) string {
	return bareKeyRe.ReplaceAllString(s, `"${1}":`)
}

// NormalizeQuotes converts single quotes and curly double quotes to straight
// double quotes.
func NormalizeQuotes(s string) string {
	return quoteReplacer.Replace(s)
}

// StripTrailingCommas removes a comma directly before a closing '}' or ']'.
func StripTrailingCommas(s string) string {
	return trailingCommaRe.ReplaceAllString(s, "${1}")
}

// CollapseWhitespace folds runs of whitespace into a single space.
func CollapseWhitespace(s string) string {
	return whitespaceRe.ReplaceAllString(s, " ")
}

func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "```json") {
		s = strings.TrimPrefix(s, "```json")
	} else if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
	}
	s = strings.TrimSuffix(s, "```")

	return strings.TrimSpace(s)
}
