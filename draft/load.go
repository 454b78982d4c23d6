package draft

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/tidwall/gjson"
	"go.uber.org/multierr"
)

// ErrNotRawContent is returned when the input does not look like Draft.js raw
// content.
var ErrNotRawContent = errors.New("not a Draft.js raw content object")

// IsRawContent reports whether data is a JSON object with both "blocks" and
// "entityMap" members.
func IsRawContent(data []byte) bool {
	if !gjson.ValidBytes(data) {
		return false
	}
	res := gjson.ParseBytes(data)
	return res.IsObject() && res.Get("blocks").IsArray() && res.Get("entityMap").Exists()
}

// Decode reads raw content from r.
func Decode(r io.Reader) (*RawContent, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("unable to read raw content: %w", err)
	}
	return DecodePath(data, "")
}

// DecodePath decodes raw content located at the gjson path inside data. An
// empty path means data itself is the raw content. Content stored as a JSON
// encoded string (as some APIs do) is unwrapped.
func DecodePath(data []byte, path string) (*RawContent, error) {
	if !gjson.ValidBytes(data) {
		return nil, errors.New("input is not valid JSON")
	}
	if path != "" {
		res := gjson.GetBytes(data, path)
		if !res.Exists() {
			return nil, fmt.Errorf("path %q not found in input", path)
		}
		if res.Type == gjson.String {
			data = []byte(res.Str)
		} else {
			data = []byte(res.Raw)
		}
	}
	if !IsRawContent(data) {
		return nil, ErrNotRawContent
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw RawContent
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("unable to decode raw content: %w", err)
	}
	return &raw, nil
}

// Validate checks the structural integrity of the content: ranges inside the
// block text, entity ranges pointing at existing entities, non-negative
// depths and unique block keys. All problems are reported together.
func (c *RawContent) Validate() (err error) {
	if c == nil {
		return errors.New("raw content is nil")
	}
	keys := make(map[string]int, len(c.Blocks))
	for i := range c.Blocks {
		b := &c.Blocks[i]
		if b.Key != "" {
			if prev, ok := keys[b.Key]; ok {
				err = multierr.Append(err, fmt.Errorf("block %d: key %q already used by block %d", i, b.Key, prev))
			}
			keys[b.Key] = i
		}
		if b.Depth < 0 {
			err = multierr.Append(err, fmt.Errorf("block %d (%s): negative depth %d", i, b.Key, b.Depth))
		}
		size := utf8.RuneCountInString(b.Text)
		for _, r := range b.InlineStyleRanges {
			err = multierr.Append(err, checkSpan(i, b.Key, "style "+r.Style, r.Offset, r.Length, size))
		}
		for _, r := range b.EntityRanges {
			err = multierr.Append(err, checkSpan(i, b.Key, "entity "+string(r.Key), r.Offset, r.Length, size))
			if c.EntityMap.Lookup(r.Key) == nil {
				err = multierr.Append(err, fmt.Errorf("block %d (%s): entity %q is not in the entity map", i, b.Key, r.Key))
			}
		}
	}
	return err
}

func checkSpan(i int, key, what string, offset, length, size int) error {
	switch {
	case offset < 0 || length < 0:
		return fmt.Errorf("block %d (%s): %s has negative span [%d,+%d)", i, key, what, offset, length)
	case offset+length > size:
		return fmt.Errorf("block %d (%s): %s span [%d,+%d) is past the end of text (%d)", i, key, what, offset, length, size)
	}
	return nil
}
