package serializer

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/mailru/recordsync/pkg/precedence"
	"github.com/mailru/recordsync/pkg/serializer/errs"
)

// PairReader читает поток пар записей. По окончании потока возвращает io.EOF
type PairReader interface {
	Next() (precedence.Pair, error)
}

// DecodePair декодирует разобранный элемент потока в пару записей.
// Ключи верхнего уровня кроме id, source и destination считаются ошибкой
func DecodePair(input interface{}) (precedence.Pair, error) {
	var pair precedence.Pair

	if err := MapstructureDecode(input, &pair); err != nil {
		return precedence.Pair{}, err
	}

	return pair, nil
}

// ReadAllPairs вычитывает поток целиком
func ReadAllPairs(r PairReader) ([]precedence.Pair, error) {
	pairs := []precedence.Pair{}

	for {
		pair, err := r.Next()
		if err == io.EOF {
			return pairs, nil
		}

		if err != nil {
			return nil, err
		}

		pairs = append(pairs, pair)
	}
}

// JSONPairReader читает либо JSON массив пар, либо JSON lines
type JSONPairReader struct {
	dec   *json.Decoder
	array bool
	init  bool
	num   int
}

func NewJSONPairReader(r io.Reader) *JSONPairReader {
	br := bufio.NewReader(r)

	return &JSONPairReader{
		dec:   json.NewDecoder(br),
		array: firstByte(br) == '[',
	}
}

func (jr *JSONPairReader) Next() (precedence.Pair, error) {
	if jr.array {
		if !jr.init {
			if _, err := jr.dec.Token(); err != nil {
				return precedence.Pair{}, fmt.Errorf("%w: %v", errs.ErrUnmarshalJSON, err)
			}

			jr.init = true
		}

		if !jr.dec.More() {
			return precedence.Pair{}, io.EOF
		}
	}

	m := map[string]interface{}{}

	if err := jr.dec.Decode(&m); err != nil {
		if err == io.EOF {
			return precedence.Pair{}, io.EOF
		}

		return precedence.Pair{}, fmt.Errorf("%w: element %d: %v", errs.ErrUnmarshalJSON, jr.num, err)
	}

	jr.num++

	pair, err := DecodePair(m)
	if err != nil {
		return precedence.Pair{}, fmt.Errorf("element %d: %w", jr.num-1, err)
	}

	return pair, nil
}

// firstByte возвращает первый непробельный байт не вычитывая его
func firstByte(br *bufio.Reader) byte {
	for {
		b, err := br.ReadByte()
		if err != nil {
			return 0
		}

		switch b {
		case ' ', '\t', '\r', '\n':
			continue
		}

		_ = br.UnreadByte()

		return b
	}
}
