package codec

import (
	"bytes"
	"errors"

	"github.com/goccy/go-json"
)

// ErrEmptyBody is returned when there is nothing to decode.
var ErrEmptyBody = errors.New("codec: empty body")

// JSONCodec uses goccy/go-json, a drop-in replacement for encoding/json.
type JSONCodec struct{}

func (c *JSONCodec) Encode(v any) ([]byte, error) {
	return json.Marshal(v)
}

// Decode rejects empty and whitespace-only bodies, so a 2xx with no payload is
// reported as a decode failure rather than a zero value.
func (c *JSONCodec) Decode(data []byte, v any) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return ErrEmptyBody
	}
	return json.Unmarshal(data, v)
}

func (c *JSONCodec) ContentType() string {
	return "application/json"
}
