package catalog

import (
	"encoding/json"
	"fmt"

	"github.com/klauspost/compress/zstd"
	"github.com/vjranagit/queryeditor/pkg/types"
)

// Codec encodes scenario records as zstd compressed JSON
type Codec struct {
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

// NewCodec creates a codec; level ranges from 1 (fastest) to 4 (smallest)
func NewCodec(level int) (*Codec, error) {
	encLevel := zstd.SpeedDefault
	switch level {
	case 1:
		encLevel = zstd.SpeedFastest
	case 2:
		encLevel = zstd.SpeedDefault
	case 3:
		encLevel = zstd.SpeedBetterCompression
	case 4:
		encLevel = zstd.SpeedBestCompression
	default:
		return nil, fmt.Errorf("compression level must be between 1 and 4, got %d", level)
	}

	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(encLevel))
	if err != nil {
		return nil, fmt.Errorf("failed to create encoder: %w", err)
	}

	decoder, err := zstd.NewReader(nil)
	if err != nil {
		encoder.Close()
		return nil, fmt.Errorf("failed to create decoder: %w", err)
	}

	return &Codec{
		encoder: encoder,
		decoder: decoder,
	}, nil
}

// Encode serializes and compresses a scenario
func (c *Codec) Encode(s types.Scenario) ([]byte, error) {
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal scenario %q: %w", s.ID, err)
	}
	return c.encoder.EncodeAll(raw, make([]byte, 0, len(raw))), nil
}

// Decode decompresses and parses a scenario record
func (c *Codec) Decode(data []byte) (types.Scenario, error) {
	raw, err := c.decoder.DecodeAll(data, nil)
	if err != nil {
		return types.Scenario{}, fmt.Errorf("decompression failed: %w", err)
	}

	var s types.Scenario
	if err := json.Unmarshal(raw, &s); err != nil {
		return types.Scenario{}, fmt.Errorf("failed to unmarshal scenario: %w", err)
	}
	return s, nil
}

// Close releases the encoder and decoder
func (c *Codec) Close() {
	if c.encoder != nil {
		c.encoder.Close()
	}
	if c.decoder != nil {
		c.decoder.Close()
	}
}
