// Package textjson stores JSON collections in plain text columns.
//
// Decoding never fails: empty, NULL or malformed column text becomes an
// empty collection. Encoding an empty collection yields "[]" or "{}".
package textjson

import (
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// StringList is a []string persisted as a JSON array in a text column.
type StringList []string

var (
	_ sql.Scanner      = (*StringList)(nil)
	_ driver.Valuer    = StringList(nil)
	_ json.Marshaler   = StringList(nil)
	_ json.Unmarshaler = (*StringList)(nil)
)

func ParseStringList(s string) StringList {
	var list []string
	if s == "" || json.Unmarshal([]byte(s), &list) != nil || list == nil {
		return StringList{}
	}
	return list
}

func (l StringList) String() string {
	if len(l) == 0 {
		return "[]"
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return "[]"
	}
	return string(b)
}

func (l *StringList) Scan(src any) error {
	text, err := scanText(src)
	if err != nil {
		return err
	}
	*l = ParseStringList(text)
	return nil
}

func (l StringList) Value() (driver.Value, error) {
	return l.String(), nil
}

func (l StringList) MarshalJSON() ([]byte, error) {
	return []byte(l.String()), nil
}

func (l *StringList) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	if list == nil {
		list = []string{}
	}
	*l = list
	return nil
}

// Document is a JSON object persisted in a text column.
type Document map[string]any

var (
	_ sql.Scanner    = (*Document)(nil)
	_ driver.Valuer  = Document(nil)
	_ json.Marshaler = Document(nil)
)

func ParseDocument(s string) Document {
	var doc map[string]any
	if s == "" || json.Unmarshal([]byte(s), &doc) != nil || doc == nil {
		return Document{}
	}
	return doc
}

func (d Document) String() string {
	if len(d) == 0 {
		return "{}"
	}
	b, err := json.Marshal(map[string]any(d))
	if err != nil {
		return "{}"
	}
	return string(b)
}

func (d *Document) Scan(src any) error {
	text, err := scanText(src)
	if err != nil {
		return err
	}
	*d = ParseDocument(text)
	return nil
}

func (d Document) Value() (driver.Value, error) {
	return d.String(), nil
}

func (d Document) MarshalJSON() ([]byte, error) {
	return []byte(d.String()), nil
}

func scanText(src any) (string, error) {
	switch v := src.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	default:
		return "", fmt.Errorf("textjson: cannot scan %T", src)
	}
}
