package punctuality

import "errors"

var (
	ErrMalformedResponse = errors.New("malformed row store response")
	ErrUpstreamStatus    = errors.New("unexpected upstream status")
	ErrUnsupportedDriver = errors.New("unsupported row store driver")
)
