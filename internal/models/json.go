package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// StringArray is a string slice stored as a JSON column
type StringArray []string

// Value implements the driver.Valuer interface
func (a StringArray) Value() (driver.Value, error) {
	if len(a) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal([]string(a))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface
func (a *StringArray) Scan(value interface{}) error {
	if value == nil {
		*a = StringArray{}
		return nil
	}
	return json.Unmarshal(jsonBytes(value), a)
}

// MediaLink is an external video or article attached to a recipe
type MediaLink struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// MediaLinks is stored as a JSON column
type MediaLinks []MediaLink

// Value implements the driver.Valuer interface
func (l MediaLinks) Value() (driver.Value, error) {
	if len(l) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal([]MediaLink(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface
func (l *MediaLinks) Scan(value interface{}) error {
	if value == nil {
		*l = MediaLinks{}
		return nil
	}
	return json.Unmarshal(jsonBytes(value), l)
}

func jsonBytes(value interface{}) []byte {
	switch v := value.(type) {
	case []byte:
		return v
	case string:
		return []byte(v)
	default:
		return []byte(fmt.Sprint(v))
	}
}
