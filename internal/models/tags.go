package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// StringArray хранит список меток в колонке JSONB.
type StringArray []string

// Value кодирует метки в JSON. Пустой список сохраняется как [].
func (sa StringArray) Value() (driver.Value, error) {
	if len(sa) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal([]string(sa))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan читает метки из JSONB.
func (sa *StringArray) Scan(value any) error {
	if value == nil {
		*sa = nil
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type for StringArray: %T", value)
	}
	if len(data) == 0 {
		*sa = nil
		return nil
	}
	return json.Unmarshal(data, (*[]string)(sa))
}

// Clone возвращает независимую копию.
func (sa StringArray) Clone() StringArray {
	if sa == nil {
		return nil
	}
	out := make(StringArray, len(sa))
	copy(out, sa)
	return out
}
