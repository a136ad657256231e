package types

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Text is raw user input sent either as a JSON string or a bare number. Numbers keep
// their literal spelling and null decodes as empty text.
type Text string

func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*t = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Text(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("expected string or number, got %s", data)
	}
	*t = Text(n.String())
	return nil
}

// String returns the text as typed.
func (t Text) String() string {
	return string(t)
}
