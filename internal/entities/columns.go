package entities

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// StringList is an ordered list of strings stored as JSON text.
// Malformed stored text decodes to an empty list instead of failing the read.
type StringList []string

func (l *StringList) Scan(value any) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		*l = StringList{}
		return nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		*l = StringList{}
		return nil
	}

	var decoded []string
	if err := json.Unmarshal(raw, &decoded); err != nil || decoded == nil {
		*l = StringList{}
		return nil
	}
	*l = decoded
	return nil
}

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l StringList) MarshalJSON() ([]byte, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(l))
}

// Copyright is a tri-state flag. It is stored as 0, 1 or NULL and
// serialized to JSON as false, true or null.
type Copyright int8

const (
	CopyrightUnknown   Copyright = iota
	CopyrightFree                // stored 0, JSON false
	CopyrightProtected           // stored 1, JSON true
)

// CopyrightFromBool maps a known boolean state to its Copyright value.
func CopyrightFromBool(protected bool) Copyright {
	if protected {
		return CopyrightProtected
	}
	return CopyrightFree
}

func (c Copyright) String() string {
	switch c {
	case CopyrightFree:
		return "false"
	case CopyrightProtected:
		return "true"
	default:
		return "unknown"
	}
}

func (c *Copyright) Scan(value any) error {
	var n int64
	switch v := value.(type) {
	case nil:
		*c = CopyrightUnknown
		return nil
	case int64:
		n = v
	case int:
		n = int64(v)
	case bool:
		*c = CopyrightFromBool(v)
		return nil
	case []byte:
		if _, err := fmt.Sscan(string(v), &n); err != nil {
			*c = CopyrightUnknown
			return nil
		}
	case string:
		if _, err := fmt.Sscan(v, &n); err != nil {
			*c = CopyrightUnknown
			return nil
		}
	default:
		return fmt.Errorf("unsupported copyright column type %T", value)
	}

	switch n {
	case 0:
		*c = CopyrightFree
	case 1:
		*c = CopyrightProtected
	default:
		*c = CopyrightUnknown
	}
	return nil
}

func (c Copyright) Value() (driver.Value, error) {
	switch c {
	case CopyrightFree:
		return int64(0), nil
	case CopyrightProtected:
		return int64(1), nil
	default:
		return nil, nil
	}
}

func (c Copyright) MarshalJSON() ([]byte, error) {
	switch c {
	case CopyrightFree:
		return []byte("false"), nil
	case CopyrightProtected:
		return []byte("true"), nil
	default:
		return []byte("null"), nil
	}
}

func (c *Copyright) UnmarshalJSON(data []byte) error {
	var v *bool
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("copyright must be true, false or null: %w", err)
	}
	if v == nil {
		*c = CopyrightUnknown
		return nil
	}
	*c = CopyrightFromBool(*v)
	return nil
}
