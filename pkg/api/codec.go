package api

import (
	"encoding/json"

	"connectrpc.com/connect"
)

// JSONCodec marshals plain structs as JSON. It registers under the name
// "json", replacing Connect's protobuf-only JSON codec.
type JSONCodec struct{}

var _ connect.Codec = JSONCodec{}

func (JSONCodec) Name() string { return "json" }

func (JSONCodec) Marshal(msg any) ([]byte, error) {
	return json.Marshal(msg)
}

func (JSONCodec) Unmarshal(data []byte, msg any) error {
	return json.Unmarshal(data, msg)
}
