package repr

import (
	"fmt"
	"strings"

	"github.com/go-errors/errors"
)

// DecodeError is returned whenever a message tree (or its wire encoding) does not have
// the shape the receiving protocol expects. Path is the dotted location of the
// offending node within the tree, empty for the root.
type DecodeError struct {
	Path   string
	Reason string
}

func (e *DecodeError) Error() string {
	if e.Path == "" {
		return "malformed representation: " + e.Reason
	}
	return fmt.Sprintf("malformed representation at %s: %s", e.Path, e.Reason)
}

// NewDecodeError returns a DecodeError for the root of the tree being decoded, for use by
// protocols that find a structurally valid tree with an invalid value in it.
func NewDecodeError(format string, args ...interface{}) *DecodeError {
	return decodeErrorf("", format, args...)
}

// AsDecodeError reports whether err is, or wraps, a DecodeError.
func AsDecodeError(err error) (*DecodeError, bool) {
	switch e := err.(type) {
	case *DecodeError:
		return e, true
	case *errors.Error:
		return AsDecodeError(e.Err)
	default:
		return nil, false
	}
}

// Prefix adds name in front of the path of err if it is a DecodeError; other errors are
// returned unchanged. It is meant for decoders of nested messages.
func Prefix(name string, err error) error {
	return prefixed(name, err)
}

func decodeErrorf(path string, format string, args ...interface{}) *DecodeError {
	return &DecodeError{Path: path, Reason: fmt.Sprintf(format, args...)}
}

func prefixed(name string, err error) error {
	if err == nil {
		return nil
	}
	e, ok := AsDecodeError(err)
	if !ok {
		return err
	}
	return &DecodeError{Path: strings.Trim(name+"."+e.Path, "."), Reason: e.Reason}
}
