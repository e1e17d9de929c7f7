package codec

import (
	"encoding/json"

	"sigs.k8s.io/yaml"
)

// Decoder turns a payload into a Go value.
type Decoder interface {
	Decode(data []byte, v any) error
}

// Encoder turns a Go value into a payload.
type Encoder interface {
	Encode(v any) ([]byte, error)
}

// Codec is both an Encoder and a Decoder.
type Codec interface {
	Decoder
	Encoder
}

// JSON encodes and decodes with encoding/json.
var JSON Codec = jsonCodec{}

// YAML encodes and decodes YAML documents. Values are converted through JSON, so struct
// fields use their json tags.
var YAML Codec = yamlCodec{}

type jsonCodec struct{}

func (jsonCodec) Decode(data []byte, v any) error { return json.Unmarshal(data, v) }

func (jsonCodec) Encode(v any) ([]byte, error) { return json.Marshal(v) }

type yamlCodec struct{}

func (yamlCodec) Decode(data []byte, v any) error { return yaml.Unmarshal(data, v) }

func (yamlCodec) Encode(v any) ([]byte, error) { return yaml.Marshal(v) }
