package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Number числовое поле batch. Бэкенд хранит значения так, как их прислала форма,
// поэтому в JSON встречаются и числа, и строки.
type Number struct {
	Value float64
	Valid bool
}

// NewNumber возвращает заданное значение.
func NewNumber(v float64) Number {
	return Number{Value: v, Valid: true}
}

// ParseNumber разбирает строку; пустая или нечисловая строка даёт неизвестное значение.
func ParseNumber(s string) Number {
	s = strings.TrimSpace(s)
	if s == "" {
		return Number{}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Number{}
	}
	return NewNumber(v)
}

func (n Number) String() string {
	if !n.Valid {
		return ""
	}
	return strconv.FormatFloat(n.Value, 'f', -1, 64)
}

// Ptr возвращает значение как *float64 для nullable-колонок.
func (n Number) Ptr() *float64 {
	if !n.Valid {
		return nil
	}
	v := n.Value
	return &v
}

// NumberFromPtr обратная операция к Ptr.
func NumberFromPtr(v *float64) Number {
	if v == nil {
		return Number{}
	}
	return NewNumber(*v)
}

func (n Number) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(n.Value, 'f', -1, 64)), nil
}

func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*n = Number{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		// Значение "-" и прочие нечисловые строки означают отсутствие данных.
		*n = ParseNumber(s)
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("number: %w", err)
	}
	*n = NewNumber(v)
	return nil
}
