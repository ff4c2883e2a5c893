package utils

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// FlexString decodes a JSON string, number or boolean into a string.
// Null and empty strings leave Value nil.
type FlexString struct {
	Value *string
}

func (f *FlexString) UnmarshalJSON(data []byte) (err error) {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		err = json.Unmarshal(data, &s)
		if err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s != "" {
			f.Value = &s
		}
		return nil
	default:
		s := string(data)
		f.Value = &s
		return nil
	}
}

// FlexBool decodes JSON booleans as well as the "Y"/"N",
// "yes"/"no", "true"/"false" and "1"/"0" string forms.
type FlexBool struct {
	Value *bool
}

func (f *FlexBool) UnmarshalJSON(data []byte) (err error) {
	var str FlexString
	err = str.UnmarshalJSON(data)
	if err != nil || str.Value == nil {
		return err
	}

	var value bool
	switch strings.ToLower(*str.Value) {
	case "y", "yes", "true", "1":
		value = true
	case "n", "no", "false", "0":
		value = false
	default:
		// unknown flag values are dropped rather than guessed
		return nil
	}
	f.Value = &value
	return nil
}

// FlexFloat decodes JSON numbers and numeric strings.
type FlexFloat struct {
	Value *float64
}

func (f *FlexFloat) UnmarshalJSON(data []byte) (err error) {
	var str FlexString
	err = str.UnmarshalJSON(data)
	if err != nil || str.Value == nil {
		return err
	}

	value, err := strconv.ParseFloat(*str.Value, 64)
	if err != nil {
		return nil //nolint:nilerr
	}
	f.Value = &value
	return nil
}
