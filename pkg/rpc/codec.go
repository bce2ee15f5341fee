package rpc

import (
	"encoding"
	"fmt"

	grpcencoding "google.golang.org/grpc/encoding"
)

// CodecName is the content-subtype this module's binary wire codec
// registers under. No .proto sources are generated in this environment, so
// wire messages marshal themselves through encoding.BinaryMarshaler /
// BinaryUnmarshaler (see pkg/a2a/binary.go) rather than generated protobuf
// code; Codec just plugs that pair of methods into grpc-go's own
// Marshal/Unmarshal hook so the transport never sees the difference.
const CodecName = "a2abin"

// Codec adapts the a2a package's hand-rolled binary wire format to
// grpc-go's encoding.Codec interface.
type Codec struct{}

func (Codec) Marshal(v any) ([]byte, error) {
	m, ok := v.(encoding.BinaryMarshaler)
	if !ok {
		return nil, fmt.Errorf("rpc: %T does not implement encoding.BinaryMarshaler", v)
	}
	return m.MarshalBinary()
}

func (Codec) Unmarshal(data []byte, v any) error {
	m, ok := v.(encoding.BinaryUnmarshaler)
	if !ok {
		return fmt.Errorf("rpc: %T does not implement encoding.BinaryUnmarshaler", v)
	}
	return m.UnmarshalBinary(data)
}

func (Codec) Name() string { return CodecName }

func init() {
	grpcencoding.RegisterCodec(Codec{})
}
