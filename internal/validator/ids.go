package validator

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ID is a numeric resource id that clients may send either as a JSON number
// or as a numeric string. null and "" decode to zero, meaning "none".
type ID uint

type IDError struct {
	Value string
}

func (e *IDError) Error() string {
	return fmt.Sprintf("invalid id %s: must be a positive integer", e.Value)
}

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = 0
		return nil
	}

	raw := string(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return &IDError{Value: raw}
		}
		raw = strings.TrimSpace(s)
		if raw == "" {
			*id = 0
			return nil
		}
	}

	parsed, ok := ParseID(raw)
	if !ok {
		return &IDError{Value: raw}
	}
	*id = ID(parsed)
	return nil
}

// Ptr returns nil for the zero id
func (id ID) Ptr() *uint {
	if id == 0 {
		return nil
	}
	v := uint(id)
	return &v
}

// ParseID accepts positive base-10 integers only
func ParseID(s string) (uint, bool) {
	n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint(n), true
}

// NestedQuestionIDs extracts ids from the objects of a nested "questions"
// list. Items that are not objects or carry no usable id are skipped and
// counted in dropped. Duplicates are kept once, in first-seen order.
func NestedQuestionIDs(items []json.RawMessage) (ids []uint, dropped int) {
	seen := make(map[uint]struct{}, len(items))
	ids = make([]uint, 0, len(items))
	for _, item := range items {
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(item, &obj); err != nil || obj == nil {
			dropped++
			continue
		}
		raw, ok := obj["id"]
		if !ok {
			dropped++
			continue
		}
		var id ID
		if err := id.UnmarshalJSON(raw); err != nil || id == 0 {
			dropped++
			continue
		}
		if _, dup := seen[uint(id)]; dup {
			continue
		}
		seen[uint(id)] = struct{}{}
		ids = append(ids, uint(id))
	}
	return ids, dropped
}
