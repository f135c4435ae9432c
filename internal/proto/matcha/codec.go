package matcha

import (
	"github.com/goccy/go-json"
	"google.golang.org/grpc/encoding"
)

// CodecName is the gRPC content subtype the Matcha messages travel under
// (application/grpc+json).
const CodecName = "json"

func init() {
	encoding.RegisterCodec(codec{})
}

// codec marshals the plain Go message structs of this package as JSON.
type codec struct{}

func (codec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (codec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func (codec) Name() string {
	return CodecName
}
