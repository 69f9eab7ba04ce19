package grpcadapter

import (
	"fmt"

	"google.golang.org/grpc/encoding"
)

// wireCodec implements google.golang.org/grpc/encoding.Codec (the legacy,
// still-supported per-message codec interface) over the wireMessage
// types defined in messages.go.
type wireCodec struct{}

func (wireCodec) Name() string { return "proto" }

func (wireCodec) Marshal(v any) ([]byte, error) {
	m, ok := v.(wireMessage)
	if !ok {
		return nil, fmt.Errorf("grpcadapter: cannot marshal %T", v)
	}
	return m.encodeTo(), nil
}

func (wireCodec) Unmarshal(data []byte, v any) error {
	m, ok := v.(wireMessage)
	if !ok {
		return fmt.Errorf("grpcadapter: cannot unmarshal into %T", v)
	}
	return m.decodeFrom(data)
}

func init() {
	// Registering under the "proto" name replaces grpc-go's default
	// codec for every server and client in this process that doesn't
	// explicitly select another content-subtype, which is how this
	// adapter avoids depending on protoc-generated descriptors while
	// still speaking gRPC's standard wire framing.
	encoding.RegisterCodec(wireCodec{})
}
