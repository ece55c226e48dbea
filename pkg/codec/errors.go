package codec

import "errors"

var (
	// ErrMarshalFailed indicates the value could not be serialized to JSON.
	ErrMarshalFailed = errors.New("codec.marshal_failed")
)
