package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// List-valued columns are stored as JSON text. These types are the
// codec at the storage boundary: the in-memory representation stays a
// plain slice, the JSON shape only exists inside Value/Scan.

type Int64List []int64

func (l Int64List) Value() (driver.Value, error) {
	return marshalList(l)
}

func (l *Int64List) Scan(src any) error {
	return unmarshalList(src, l)
}

type IntList []int

func (l IntList) Value() (driver.Value, error) {
	return marshalList(l)
}

func (l *IntList) Scan(src any) error {
	return unmarshalList(src, l)
}

type Float64List []float64

func (l Float64List) Value() (driver.Value, error) {
	return marshalList(l)
}

func (l *Float64List) Scan(src any) error {
	return unmarshalList(src, l)
}

type StringList []string

func (l StringList) Value() (driver.Value, error) {
	return marshalList(l)
}

func (l *StringList) Scan(src any) error {
	return unmarshalList(src, l)
}

func marshalList(v any) (driver.Value, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func unmarshalList(src, dst any) error {
	switch s := src.(type) {
	case nil:
		return nil
	case []byte:
		if len(s) == 0 {
			return nil
		}
		return json.Unmarshal(s, dst)
	case string:
		if s == "" {
			return nil
		}
		return json.Unmarshal([]byte(s), dst)
	default:
		return fmt.Errorf("unsupported list column type %T", src)
	}
}
