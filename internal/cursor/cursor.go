// Package cursor encodes and decodes the opaque keyset pagination token used
// to resume a jobs scan. A token carries the (captured_at, id) pair of the
// last row of a page as base64-encoded JSON; callers must treat it as opaque.
package cursor

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"
)

// Cursor identifies a boundary row in the (captured_at DESC, id DESC) ordering.
type Cursor struct {
	CapturedAt time.Time
	ID         int64
}

// Decode failure categories. Every malformed token is reported as one of
// these, never as a crash.
const (
	CategoryBadEncoding  = "bad encoding"
	CategoryBadPayload   = "bad payload"
	CategoryMissingField = "missing field"
	CategoryWrongType    = "wrong type"
)

// DecodeError describes why a token could not be decoded.
type DecodeError struct {
	Category string
	Field    string
	Cause    error
}

func (e *DecodeError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid cursor (%s: %s)", e.Category, e.Field)
	}
	return fmt.Sprintf("invalid cursor (%s)", e.Category)
}

func (e *DecodeError) Unwrap() error {
	return e.Cause
}

// The wire payload keeps captured_at as Unix microseconds. Postgres
// timestamptz is microsecond-precise, so the round trip is exact.
type payload struct {
	CapturedAt int64 `json:"ca"`
	ID         int64 `json:"id"`
}

// Encode serializes c into an opaque token. Encoding is deterministic:
// identical cursors always produce identical tokens.
func Encode(c Cursor) string {
	b, err := json.Marshal(payload{
		CapturedAt: c.CapturedAt.UnixMicro(),
		ID:         c.ID,
	})
	if err != nil {
		// A two-int64 struct cannot fail to marshal.
		panic(fmt.Sprintf("cursor: marshal payload: %v", err))
	}
	return base64.URLEncoding.EncodeToString(b)
}

// Decode parses a token produced by Encode. Any malformation is returned as a
// *DecodeError with a category distinguishing bad base64, non-object JSON,
// absent fields, and mistyped fields.
func Decode(token string) (*Cursor, error) {
	if token == "" {
		return nil, &DecodeError{Category: CategoryBadEncoding, Cause: fmt.Errorf("empty token")}
	}

	raw, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return nil, &DecodeError{Category: CategoryBadEncoding, Cause: err}
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, &DecodeError{Category: CategoryBadPayload, Cause: err}
	}

	capturedAt, err := decodeInt64Field(fields, "ca")
	if err != nil {
		return nil, err
	}
	id, err := decodeInt64Field(fields, "id")
	if err != nil {
		return nil, err
	}

	return &Cursor{
		CapturedAt: time.UnixMicro(capturedAt).UTC(),
		ID:         id,
	}, nil
}

func decodeInt64Field(fields map[string]json.RawMessage, name string) (int64, error) {
	raw, ok := fields[name]
	if !ok {
		return 0, &DecodeError{Category: CategoryMissingField, Field: name}
	}
	var v int64
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, &DecodeError{Category: CategoryWrongType, Field: name, Cause: err}
	}
	return v, nil
}
