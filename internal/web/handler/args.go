package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

var (
	// ErrMissingArgument is returned when a procedure argument is absent.
	ErrMissingArgument = errors.New("missing argument")
	// ErrInvalidArguments is returned for a body that is neither JSON nor a form.
	ErrInvalidArguments = errors.New("invalid arguments")
)

// Args are the named arguments of a procedure call. Each value is raw JSON.
type Args map[string]json.RawMessage

// ParseArgs reads arguments from a JSON object body, a form body or the
// query string. Form and query values are taken as JSON strings.
func ParseArgs(c *fiber.Ctx) (Args, error) {
	args := Args{}

	c.Request().URI().QueryArgs().VisitAll(func(key, value []byte) {
		args[string(key)] = quote(value)
	})

	body := bytes.TrimSpace(c.Body())
	if len(body) == 0 {
		return args, nil
	}

	if bytes.HasPrefix(c.Request().Header.ContentType(), []byte(fiber.MIMEApplicationJSON)) {
		var fromBody Args
		if err := json.Unmarshal(body, &fromBody); err != nil {
			return nil, Validation(fmt.Errorf("%w: %w", ErrInvalidArguments, err))
		}

		for k, v := range fromBody {
			args[k] = v
		}

		return args, nil
	}

	c.Request().PostArgs().VisitAll(func(key, value []byte) {
		args[string(key)] = quote(value)
	})

	return args, nil
}

// String returns a string argument. A missing argument is an error unless
// optional is set.
func (a Args) String(name string, optional bool) (string, error) {
	raw, ok := a[name]
	if !ok || isNull(raw) {
		if optional {
			return "", nil
		}

		return "", Validation(fmt.Errorf("%w: %s", ErrMissingArgument, name))
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", Validation(fmt.Errorf("%w: %s must be a string", ErrInvalidArguments, name))
	}

	return s, nil
}

// JSON returns an argument as JSON text. An argument sent as a string holding
// JSON is returned unwrapped, so objects may arrive either way.
func (a Args) JSON(name string) ([]byte, error) {
	raw, ok := a[name]
	if !ok || isNull(raw) {
		return nil, Validation(fmt.Errorf("%w: %s", ErrMissingArgument, name))
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil && json.Valid([]byte(s)) {
		return []byte(s), nil
	}

	return raw, nil
}

// Raw returns the argument exactly as sent.
func (a Args) Raw(name string) ([]byte, error) {
	raw, ok := a[name]
	if !ok {
		return nil, Validation(fmt.Errorf("%w: %s", ErrMissingArgument, name))
	}

	return raw, nil
}

func quote(value []byte) json.RawMessage {
	out, _ := json.Marshal(string(value)) //nolint:errchkjson // a string always encodes

	return out
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
