package weberr

import "errors"

type responder interface {
	Response() (body interface{}, status int)
}

// Response returns the wire body and status attached anywhere along err's
// chain, so a checkout failure deep in the transaction can still dictate what
// the shopper sees. ok is false when the error carries no response.
func Response(err error) (body interface{}, status int, ok bool) {
	var re responder
	if errors.As(err, &re) {
		body, code := re.Response()
		return body, code, true
	}
	return nil, 0, false
}

type responseError struct {
	error
	body   interface{}
	status int
}

func (e *responseError) Response() (interface{}, int) {
	return e.body, e.status
}

func (e *responseError) Unwrap() error {
	return e.error
}
