package mapping

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// MarshalJSON encodes the mapping in the same shape as the YAML resource:
// {"products": {"keyword": "tag", ...}, "regulations": {...}, "tags": {...}}, keeping order.
func (m KeywordMapping) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, category := range Categories {
		if i > 0 {
			buf.WriteByte(',')
		}
		writeJSONString(&buf, category)
		buf.WriteString(":{")
		for j, e := range m.Entries(category) {
			if j > 0 {
				buf.WriteByte(',')
			}
			writeJSONString(&buf, e.Keyword)
			buf.WriteByte(':')
			writeJSONString(&buf, e.Tag)
		}
		buf.WriteByte('}')
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeJSONString(buf *bytes.Buffer, s string) {
	b, _ := json.Marshal(s)
	buf.Write(b)
}

// UnmarshalJSON decodes a JSON object of categories, keeping keyword order.
// encoding/json maps lose key order, so the object is walked token by token.
func (m *KeywordMapping) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := expectDelim(dec, '{', "keyword mapping must be a JSON object of categories"); err != nil {
		return err
	}
	var out KeywordMapping
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := tok.(string)
		if !isCategory(key) {
			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return err
			}
			continue
		}
		entries, err := decodeJSONCategory(dec, key)
		if err != nil {
			return err
		}
		out.setEntries(key, entries)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*m = out
	return nil
}

func decodeJSONCategory(dec *json.Decoder, category string) ([]Entry, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if tok == nil {
		return nil, nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("category %q must be an object of keyword to tag", category)
	}
	var entries []Entry
	seen := make(map[string]bool)
	for dec.More() {
		kt, err := dec.Token()
		if err != nil {
			return nil, err
		}
		keyword, _ := kt.(string)
		var tag string
		if err := dec.Decode(&tag); err != nil {
			return nil, fmt.Errorf("category %q: tag for %q must be a string", category, keyword)
		}
		if seen[keyword] {
			return nil, fmt.Errorf("category %q: duplicate keyword %q", category, keyword)
		}
		seen[keyword] = true
		entries = append(entries, Entry{Keyword: keyword, Tag: tag})
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return entries, nil
}

func expectDelim(dec *json.Decoder, want json.Delim, msg string) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("%s", msg)
	}
	return nil
}
