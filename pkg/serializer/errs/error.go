package errs

import "errors"

var (
	ErrMarshalJSON            = errors.New("err marshal json")
	ErrUnmarshalJSON          = errors.New("err unmarshal json")
	ErrMarshalMsgpack         = errors.New("err marshal msgpack")
	ErrUnmarshalMsgpack       = errors.New("err unmarshal msgpack")
	ErrMapstructureNewDecoder = errors.New("err mapstructure new decoder")
	ErrMapstructureDecode     = errors.New("err mapstructure decode")
)
