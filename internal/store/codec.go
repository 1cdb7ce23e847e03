package store

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fxamacker/cbor/v2"
	"gopkg.in/yaml.v3"
)

// Format names a snapshot encoding.
type Format string

// Supported snapshot encodings.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatCBOR Format = "cbor"
)

// Codec encodes and decodes snapshots.
type Codec interface {
	Marshal(s Snapshot) ([]byte, error)
	Unmarshal(data []byte, s *Snapshot) error
}

// CodecFor returns the codec for a format name.
func CodecFor(f Format) (Codec, error) {
	switch Format(strings.ToLower(string(f))) {
	case FormatJSON, "":
		return jsonCodec{}, nil
	case FormatYAML, "yml":
		return yamlCodec{}, nil
	case FormatCBOR:
		return cborCodec{}, nil
	default:
		return nil, fmt.Errorf("unknown store format %q", f)
	}
}

// FormatFromPath guesses a format from a file extension, defaulting to JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".cbor":
		return FormatCBOR
	default:
		return FormatJSON
	}
}

type jsonCodec struct{}

func (jsonCodec) Marshal(s Snapshot) ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

func (jsonCodec) Unmarshal(data []byte, s *Snapshot) error {
	return json.Unmarshal(data, s)
}

type yamlCodec struct{}

func (yamlCodec) Marshal(s Snapshot) ([]byte, error) {
	return yaml.Marshal(s)
}

func (yamlCodec) Unmarshal(data []byte, s *Snapshot) error {
	return yaml.Unmarshal(data, s)
}

type cborCodec struct{}

func (cborCodec) Marshal(s Snapshot) ([]byte, error) {
	return cbor.Marshal(s)
}

func (cborCodec) Unmarshal(data []byte, s *Snapshot) error {
	return cbor.Unmarshal(data, s)
}
