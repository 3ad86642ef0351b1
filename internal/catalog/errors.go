package catalog

import (
	"fmt"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
)

// ErrOrderNotFound is returned when a requested order does not exist or
// does not belong to the caller.
var ErrOrderNotFound = errors.New("order not found")

// StatusError is a non-success response from the service. The client
// treats all of them uniformly; Code/Message carry whatever detail the
// service included in its error body.
type StatusError struct {
	HTTPStatus int
	Code       int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("service responded %d: %s", e.HTTPStatus, e.Message)
	}
	return fmt.Sprintf("service responded %d", e.HTTPStatus)
}

// newStatusError parses the conventional {"code": n, "message": "..."}
// error body. Bodies in any other shape are ignored; the HTTP status is
// authoritative either way.
func newStatusError(httpStatus int, body []byte) *StatusError {
	e := &StatusError{HTTPStatus: httpStatus}
	_ = jx.DecodeBytes(body).Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "code":
			code, err := d.Int()
			if err != nil {
				return err
			}
			e.Code = code
		case "message":
			msg, err := d.Str()
			if err != nil {
				return err
			}
			e.Message = msg
		default:
			return d.Skip()
		}
		return nil
	})
	return e
}
