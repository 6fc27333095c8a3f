package entity

import (
	"encoding/json"
	"strconv"

	"github.com/pkg/errors"
)

// Record is a server-shaped object whose layout is only known by its descriptor.
type Record map[string]interface{}

func (r Record) ID() ID {
	return IDOf(r["id"])
}

// Text renders the value at key for display. Missing and null values are empty.
func (r Record) Text(key string) string {
	return text(r[key])
}

func text(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case json.Number:
		return val.String()
	}
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

// ToRecord re-shapes any JSON-encodable value into a Record.
func ToRecord(v interface{}) (Record, error) {
	if r, ok := v.(Record); ok {
		return r, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Wrap(err, "encoding record")
	}
	var r Record
	if err = json.Unmarshal(b, &r); err != nil {
		return nil, errors.Wrap(err, "decoding record")
	}
	return r, nil
}

// Cells renders v as one table row following cols.
func Cells(v interface{}, cols []Column) ([]string, error) {
	r, err := ToRecord(v)
	if err != nil {
		return nil, err
	}
	row := make([]string, len(cols))
	for i, col := range cols {
		row[i] = r.Text(col.Key)
	}
	return row, nil
}
