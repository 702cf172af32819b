package api

import "errors"

var ErrInvalidRequest = errors.New("invalid_request")

// invalidRequestError names the request field that failed validation so
// the response can point at it.
type invalidRequestError struct {
	param string
	msg   string
}

func (e invalidRequestError) Error() string {
	return e.msg
}

func (e invalidRequestError) Unwrap() error {
	return ErrInvalidRequest
}

func newInvalidRequest(param, msg string) error {
	return invalidRequestError{param: param, msg: msg}
}

// requestParam reports the offending field of an invalid request, if any.
func requestParam(err error) string {
	var ire invalidRequestError
	if errors.As(err, &ire) {
		return ire.param
	}
	return ""
}
