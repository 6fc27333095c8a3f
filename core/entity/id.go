package entity

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/pkg/errors"
)

// ID identifies a record. The backend sends numbers, some endpoints strings;
// both decode to the same ID.
type ID string

func (id ID) String() string { return string(id) }

func (id ID) IsZero() bool { return id == "" }

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || string(b) == "null":
		*id = ""
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return errors.Wrap(err, "decoding id")
		}
		*id = ID(s)
	default:
		var n json.Number
		if err := json.Unmarshal(b, &n); err != nil {
			return errors.Errorf("invalid id %s", b)
		}
		*id = ID(n.String())
	}
	return nil
}

// MarshalJSON writes integer IDs as JSON numbers, anything else as a string.
func (id ID) MarshalJSON() ([]byte, error) {
	if id == "" {
		return []byte("null"), nil
	}
	if id.isInt() {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

func (id ID) isInt() bool {
	s := string(id)
	if s != "0" && s[0] == '0' {
		return false
	}
	_, err := strconv.ParseInt(s, 10, 64)
	return err == nil
}

// IDOf converts a decoded JSON value to an ID.
func IDOf(v interface{}) ID {
	switch val := v.(type) {
	case nil:
		return ""
	case ID:
		return val
	case string:
		return ID(val)
	case json.Number:
		return ID(val.String())
	case float64:
		return ID(strconv.FormatFloat(val, 'f', -1, 64))
	case int:
		return ID(strconv.Itoa(val))
	case int64:
		return ID(strconv.FormatInt(val, 10))
	}
	return ""
}
