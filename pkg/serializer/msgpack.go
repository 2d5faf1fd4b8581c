package serializer

import (
	"fmt"
	"io"

	msgpack "gopkg.in/vmihailenco/msgpack.v2"

	"github.com/mailru/recordsync/pkg/precedence"
	"github.com/mailru/recordsync/pkg/serializer/errs"
)

func MsgpackMarshal(v any) ([]byte, error) {
	ret, err := msgpack.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrMarshalMsgpack, err)
	}

	return ret, nil
}

// MsgpackPairReader читает поток msgpack-объектов, по одной паре на объект.
// Вложенные записи msgpack декодирует в map[interface{}]interface{},
// приведение ключей к строкам делает mapstructure
type MsgpackPairReader struct {
	dec *msgpack.Decoder
	num int
}

func NewMsgpackPairReader(r io.Reader) *MsgpackPairReader {
	return &MsgpackPairReader{dec: msgpack.NewDecoder(r)}
}

func (mr *MsgpackPairReader) Next() (precedence.Pair, error) {
	var m map[string]interface{}

	if err := mr.dec.Decode(&m); err != nil {
		if err == io.EOF {
			return precedence.Pair{}, io.EOF
		}

		return precedence.Pair{}, fmt.Errorf("%w: element %d: %v", errs.ErrUnmarshalMsgpack, mr.num, err)
	}

	mr.num++

	pair, err := DecodePair(m)
	if err != nil {
		return precedence.Pair{}, fmt.Errorf("element %d: %w", mr.num-1, err)
	}

	return pair, nil
}
