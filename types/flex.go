package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FlexID decodes an identifier sent either as a JSON number or as a
// numeric string.
type FlexID int64

func (id *FlexID) UnmarshalJSON(b []byte) error {
	v, err := parseFlexID(b)
	if err != nil {
		return err
	}
	*id = FlexID(v)
	return nil
}

func (id FlexID) Int64() int64 {
	return int64(id)
}

func parseFlexID(b []byte) (int64, error) {
	s := string(bytes.TrimSpace(b))
	if s == "null" || s == `""` {
		return 0, nil
	}
	s = strings.Trim(s, `"`)
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return v, nil
}

// IDList is a list of identifiers, each a number or a numeric string.
type IDList []int64

func (l *IDList) UnmarshalJSON(b []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	ids := make(IDList, 0, len(raw))
	for _, r := range raw {
		v, err := parseFlexID(r)
		if err != nil {
			return err
		}
		ids = append(ids, v)
	}
	*l = ids
	return nil
}

var flexTimeLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// FlexTime accepts RFC 3339 timestamps as well as the layouts produced by
// HTML date and datetime-local inputs, read in local time.
type FlexTime struct {
	time.Time
}

func (t *FlexTime) UnmarshalJSON(b []byte) error {
	s := string(bytes.TrimSpace(b))
	if s == "null" {
		return nil
	}
	var str string
	if err := json.Unmarshal(b, &str); err != nil {
		return err
	}
	parsed, err := ParseFlexTime(str)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

func (t FlexTime) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Time)
}

func ParseFlexTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	if v, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return v, nil
	}
	for _, layout := range flexTimeLayouts {
		if v, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return v, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time %q", s)
}
