package taxonomy

import (
	"database/sql/driver"
	"fmt"
	"strings"
)

// Flag values inside an ErrorVector.
const (
	Present uint8 = 0
	Absent  uint8 = 1
)

// ErrorVector holds one flag per catalog category, in catalog order.
// Absent (1) means the molecule is clean for that category; Present (0)
// means the defect was detected.
type ErrorVector []uint8

// FullyValid returns the all-Absent sentinel vector.
func FullyValid() ErrorVector {
	v := make(ErrorVector, Count())
	for i := range v {
		v[i] = Absent
	}
	return v
}

// With returns a copy of v with the given categories marked Present.
// Unknown categories are ignored.
func (v ErrorVector) With(categories ...ErrorCategory) ErrorVector {
	out := v.Clone()
	for _, c := range categories {
		if i, ok := Position(c); ok && i < len(out) {
			out[i] = Present
		}
	}
	return out
}

// Clone returns an independent copy.
func (v ErrorVector) Clone() ErrorVector {
	out := make(ErrorVector, len(v))
	copy(out, v)
	return out
}

// Valid reports whether v has catalog length and only 0/1 entries.
func (v ErrorVector) Valid() bool {
	if len(v) != Count() {
		return false
	}
	for _, f := range v {
		if f != Present && f != Absent {
			return false
		}
	}
	return true
}

// IsFullyValid reports whether no category is flagged.
func (v ErrorVector) IsFullyValid() bool {
	if len(v) != Count() {
		return false
	}
	for _, f := range v {
		if f != Absent {
			return false
		}
	}
	return true
}

// Has reports whether category c is flagged as present.
func (v ErrorVector) Has(c ErrorCategory) bool {
	i, ok := Position(c)
	return ok && i < len(v) && v[i] == Present
}

// PresentCategories lists flagged categories in catalog order.
func (v ErrorVector) PresentCategories() []ErrorCategory {
	var out []ErrorCategory
	for i, c := range Categories() {
		if i < len(v) && v[i] == Present {
			out = append(out, c)
		}
	}
	return out
}

// Equal compares two vectors element-wise.
func (v ErrorVector) Equal(other ErrorVector) bool {
	if len(v) != len(other) {
		return false
	}
	for i := range v {
		if v[i] != other[i] {
			return false
		}
	}
	return true
}

// String renders the vector as "[1, 1, 0, 1, 1, 1, 1]".
func (v ErrorVector) String() string {
	parts := make([]string, len(v))
	for i, f := range v {
		parts[i] = fmt.Sprintf("%d", f)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Bits renders the vector as a compact "1101111" string.
func (v ErrorVector) Bits() string {
	var b strings.Builder
	for _, f := range v {
		b.WriteByte('0' + f)
	}
	return b.String()
}

// ParseBits is the inverse of Bits.
func ParseBits(s string) (ErrorVector, error) {
	v := make(ErrorVector, len(s))
	for i, r := range s {
		switch r {
		case '0':
			v[i] = Present
		case '1':
			v[i] = Absent
		default:
			return nil, fmt.Errorf("invalid error vector flag %q at %d", r, i)
		}
	}
	if len(v) != Count() {
		return nil, fmt.Errorf("error vector has %d flags, want %d", len(v), Count())
	}
	return v, nil
}

// MarshalJSON encodes the vector as a JSON array of numbers rather than
// base64, which is what []uint8 would otherwise produce.
func (v ErrorVector) MarshalJSON() ([]byte, error) {
	if v == nil {
		return []byte("null"), nil
	}
	return []byte(strings.ReplaceAll(v.String(), " ", "")), nil
}

// UnmarshalJSON accepts the array form produced by MarshalJSON. Each
// element must be exactly 0 or 1.
func (v *ErrorVector) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*v = nil
		return nil
	}
	if len(s) < 2 || s[0] != '[' || s[len(s)-1] != ']' {
		return fmt.Errorf("error vector must be a JSON array, got %s", s)
	}
	body := strings.TrimSpace(s[1 : len(s)-1])
	if body == "" {
		*v = ErrorVector{}
		return nil
	}
	elems := strings.Split(body, ",")
	out := make(ErrorVector, len(elems))
	for i, e := range elems {
		switch strings.TrimSpace(e) {
		case "0":
			out[i] = Present
		case "1":
			out[i] = Absent
		default:
			return fmt.Errorf("invalid error vector flag %q at %d", strings.TrimSpace(e), i)
		}
	}
	*v = out
	return nil
}

// Value stores the vector in its compact bit-string form.
func (v ErrorVector) Value() (driver.Value, error) {
	return v.Bits(), nil
}

// Scan reads the compact bit-string form.
func (v *ErrorVector) Scan(src interface{}) error {
	var s string
	switch t := src.(type) {
	case string:
		s = t
	case []byte:
		s = string(t)
	case nil:
		*v = nil
		return nil
	default:
		return fmt.Errorf("cannot scan %T into ErrorVector", src)
	}
	parsed, err := ParseBits(s)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}
