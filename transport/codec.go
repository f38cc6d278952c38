package transport

import (
	"fmt"

	"github.com/delaneyj/mappergraph/graph"
	"github.com/fxamacker/cbor/v2"
)

// encMode uses Core Deterministic Encoding so the same message always
// produces the same bytes.
var encMode cbor.EncMode

var decMode cbor.DecMode

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("transport: CBOR encoder initialization failed: " + err.Error())
	}
	decMode, err = cbor.DecOptions{}.DecMode()
	if err != nil {
		panic("transport: CBOR decoder initialization failed: " + err.Error())
	}
}

// Encode serializes a message for the wire.
func Encode(msg graph.Message) ([]byte, error) {
	data, err := encMode.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", msg, err)
	}
	return data, nil
}

func Decode(data []byte) (graph.Message, error) {
	var msg graph.Message
	if err := decMode.Unmarshal(data, &msg); err != nil {
		return graph.Message{}, fmt.Errorf("decode message: %w", err)
	}
	return msg, nil
}
