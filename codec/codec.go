// Package codec serializes request batches and decodes API responses.
package codec

// Codec turns values into request bodies and response bodies back into values.
type Codec interface {
	Encode(v any) ([]byte, error)
	Decode(data []byte, v any) error
	ContentType() string
}

// Default returns the codec the recommendations API speaks.
func Default() Codec {
	return &JSONCodec{}
}
