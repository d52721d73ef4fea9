// Package classifier derives tags for a payload by whole-word keyword matching.
package classifier

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/hyperjump/smartdata/internal/mapping"
	"github.com/hyperjump/smartdata/pkg/utils"
	"go.uber.org/zap"
)

// UnsupportedTypeError is returned when the payload is neither a string nor a structured record.
type UnsupportedTypeError struct {
	Type string
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("unsupported payload type for classification: %s", e.Type)
}

// MappingSource supplies the keyword mapping for each classification.
type MappingSource interface {
	Load() (*mapping.KeywordMapping, error)
}

// Classifier classifies payloads against a mapping that is reloaded on every call.
type Classifier struct {
	source MappingSource
	logger *zap.Logger
}

// NewClassifier creates a classifier reading its mapping from source. logger may be nil.
func NewClassifier(source MappingSource, logger *zap.Logger) *Classifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Classifier{source: source, logger: logger}
}

// Classify loads the current mapping and returns the payload's tags.
// A mapping load failure is returned as is. An unsupported payload is logged and yields
// zero tags with a nil error so the caller carries on.
func (c *Classifier) Classify(payload interface{}) ([]string, error) {
	m, err := c.source.Load()
	if err != nil {
		return nil, err
	}
	tags, err := Classify(payload, m)
	if err != nil {
		c.logger.Error("classification skipped", zap.Error(err))
		return tags, nil
	}
	c.logger.Info("data analyzed",
		zap.Strings("tags", tags),
		zap.String("payload", utils.Truncate(preview(payload), 120)),
	)
	return tags, nil
}

// Classify returns the tags of every keyword in m that occurs in payload as a whole word.
// Categories are visited in mapping.Categories order and entries in stored order.
// Duplicate tags are kept. The result is never nil.
func Classify(payload interface{}, m *mapping.KeywordMapping) ([]string, error) {
	tags := []string{}
	text, err := Normalize(payload)
	if err != nil {
		return tags, err
	}
	if m == nil {
		return tags, nil
	}
	for _, category := range mapping.Categories {
		for _, e := range m.Entries(category) {
			if MatchWord(text, e.Keyword) {
				tags = append(tags, e.Tag)
			}
		}
	}
	return tags, nil
}

// Normalize returns the lowercased text form of payload. Structured records are
// serialized to JSON with sorted keys and no HTML escaping, so the text is deterministic.
func Normalize(payload interface{}) (string, error) {
	switch v := payload.(type) {
	case string:
		return strings.ToLower(v), nil
	case map[string]interface{}:
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		if err := enc.Encode(v); err != nil {
			return "", fmt.Errorf("failed to serialize payload: %w", err)
		}
		return strings.ToLower(strings.TrimSuffix(buf.String(), "\n")), nil
	default:
		return "", &UnsupportedTypeError{Type: fmt.Sprintf("%T", payload)}
	}
}

// MatchWord reports whether keyword occurs in text bounded by word boundaries on both sides.
// A boundary sits between two runes whose word-ness differs; letters, digits and '_' in any
// script are word runes, and the ends of text count as non-word.
func MatchWord(text, keyword string) bool {
	if keyword == "" {
		return false
	}
	first, _ := utf8.DecodeRuneInString(keyword)
	last, _ := utf8.DecodeLastRuneInString(keyword)
	for start := 0; start <= len(text)-len(keyword); {
		i := strings.Index(text[start:], keyword)
		if i < 0 {
			return false
		}
		i += start
		end := i + len(keyword)
		if boundaryBefore(text, i, first) && boundaryAfter(text, end, last) {
			return true
		}
		_, size := utf8.DecodeRuneInString(text[i:])
		start = i + size
	}
	return false
}

func boundaryBefore(text string, i int, first rune) bool {
	prevWord := false
	if i > 0 {
		prev, _ := utf8.DecodeLastRuneInString(text[:i])
		prevWord = isWordRune(prev)
	}
	return prevWord != isWordRune(first)
}

func boundaryAfter(text string, end int, last rune) bool {
	nextWord := false
	if end < len(text) {
		next, _ := utf8.DecodeRuneInString(text[end:])
		nextWord = isWordRune(next)
	}
	return isWordRune(last) != nextWord
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsNumber(r) || r == '_'
}

func preview(payload interface{}) string {
	if s, ok := payload.(string); ok {
		return s
	}
	b, _ := json.Marshal(payload)
	return string(b)
}
