package entry

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// ErrMissingID is reported for goals that arrive without an identifier.
var ErrMissingID = errors.New("entry: goal is missing an id")

// ID is the canonical identity of a goal. Clients have written ids both as
// JSON numbers and as strings; decoding folds both into one string form so
// comparisons never need to care about the original representation.
type ID string

// NormalizeID returns the canonical form of a textual id. Integral numeric
// text is rendered without sign padding, leading zeros or a fractional
// part, so "7", "07" and "7.0" all become "7".
func NormalizeID(raw string) ID {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && isIntegral(f) && looksNumeric(s) {
		return ID(strconv.FormatInt(int64(f), 10))
	}
	return ID(s)
}

func isIntegral(f float64) bool {
	return !math.IsInf(f, 0) && !math.IsNaN(f) && f == math.Trunc(f) && math.Abs(f) < 1<<53
}

// looksNumeric rejects values such as "Inf", "0x10" or "12e3" that ParseFloat
// accepts. Exponent forms in text collide with hex-looking ids.
func looksNumeric(s string) bool {
	for i, r := range s {
		switch {
		case r >= '0' && r <= '9', r == '.':
		case (r == '-' || r == '+') && i == 0:
		default:
			return false
		}
	}
	return true
}

// IsZero reports whether the id is empty and therefore unusable.
func (id ID) IsZero() bool { return id == "" }

func (id ID) String() string { return string(id) }

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = NormalizeID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("entry: id must be a string or number: %s", string(b))
	}
	// A JSON number is numeric whatever its notation, so 1e3 is 1000.
	if f, err := n.Float64(); err == nil && isIntegral(f) {
		*id = ID(strconv.FormatInt(int64(f), 10))
		return nil
	}
	*id = NormalizeID(n.String())
	return nil
}

func (id *ID) UnmarshalText(b []byte) error {
	*id = NormalizeID(string(b))
	return nil
}

// IDSet is a set of canonical ids.
type IDSet map[ID]struct{}

// NewIDSet builds a set from ids, skipping empty ones.
func NewIDSet(ids ...ID) IDSet {
	s := make(IDSet, len(ids))
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

// Add inserts id unless it is empty.
func (s IDSet) Add(id ID) {
	if id.IsZero() {
		return
	}
	s[id] = struct{}{}
}

// Has reports membership.
func (s IDSet) Has(id ID) bool {
	_, ok := s[id]
	return ok
}

// Union adds every id in other to s.
func (s IDSet) Union(other IDSet) {
	for id := range other {
		s[id] = struct{}{}
	}
}

// Sorted returns the members in ascending order.
func (s IDSet) Sorted() []ID {
	out := make([]ID, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Clone returns an independent copy of s.
func (s IDSet) Clone() IDSet {
	out := make(IDSet, len(s))
	out.Union(s)
	return out
}
