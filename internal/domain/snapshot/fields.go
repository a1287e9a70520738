package snapshot

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Upstream producers disagree on scalar encodings: MMSIs arrive as numbers or
// strings, counts as ints or floats, change values as whatever the field held.
// The types below absorb those differences at decode time.

var jsonNull = []byte("null")

// MMSI is a maritime station identifier.  Zero means absent.
type MMSI int64

// UnmarshalJSON accepts a JSON number, a numeric string, "" or null.
func (m *MMSI) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, jsonNull) {
		*m = 0
		return nil
	}
	s := string(b)
	if b[0] == '"' {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		s = strings.TrimSpace(str)
		if s == "" {
			*m = 0
			return nil
		}
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil || f != math.Trunc(f) {
			return fmt.Errorf("snapshot: invalid mmsi %s", string(b))
		}
		n = int64(f)
	}
	if n < 0 {
		return fmt.Errorf("snapshot: negative mmsi %d", n)
	}
	*m = MMSI(n)
	return nil
}

// String renders the id in decimal.
func (m MMSI) String() string {
	return strconv.FormatInt(int64(m), 10)
}

// Count is a non-negative counter tolerant of float and string encodings.
type Count int

// UnmarshalJSON accepts integers, floats (truncated), numeric strings and null.
func (c *Count) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, jsonNull) {
		*c = 0
		return nil
	}
	s := string(b)
	if b[0] == '"' {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		s = strings.TrimSpace(str)
		if s == "" {
			*c = 0
			return nil
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Errorf("snapshot: invalid count %s", string(b))
	}
	if f < 0 {
		f = 0
	}
	*c = Count(int(f))
	return nil
}

// Int returns the count as an int.
func (c Count) Int() int { return int(c) }

// Text is a string decoded from any JSON scalar.  Null decodes to "".
type Text string

// UnmarshalJSON stringifies numbers and booleans verbatim.
func (t *Text) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || bytes.Equal(b, jsonNull):
		*t = ""
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = Text(s)
	case b[0] == '{' || b[0] == '[':
		return fmt.Errorf("snapshot: expected scalar, got %c", b[0])
	default:
		*t = Text(b)
	}
	return nil
}

// Flag is a boolean that also accepts 0/1, "true"/"false", a non-empty
// string (true) and null (false).
type Flag bool

// UnmarshalJSON implements json.Unmarshaler.
func (f *Flag) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || bytes.Equal(b, jsonNull):
		*f = false
	case bytes.Equal(b, []byte("true")):
		*f = true
	case bytes.Equal(b, []byte("false")):
		*f = false
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		s = strings.ToLower(strings.TrimSpace(s))
		*f = Flag(s != "" && s != "false" && s != "0" && s != "none" && s != "null")
	default:
		n, err := strconv.ParseFloat(string(b), 64)
		if err != nil {
			return fmt.Errorf("snapshot: invalid flag %s", string(b))
		}
		*f = n != 0
	}
	return nil
}

//Personal.AI order the ending
