package codec

import (
	"github.com/vmihailenco/msgpack/v5"
)

// MsgPack is the binary MessagePack codec. Integers keep their encoded width.
type MsgPack struct{}

func (MsgPack) Marshal(v any) ([]byte, error) { return msgpack.Marshal(v) }

func (MsgPack) Unmarshal(data []byte, v any) error { return msgpack.Unmarshal(data, v) }

func (MsgPack) Name() string { return "msgpack" }
