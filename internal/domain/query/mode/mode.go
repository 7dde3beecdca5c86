package mode

import "fmt"

// Mode is the filter matching polarity applied uniformly to every filter field.
type Mode string

// Matching mode constants.
const (
	// Inclusive keeps records whose field value contains the filter value.
	Inclusive Mode = "inclusive"
	// Exclusive keeps records whose field value does not contain the filter value.
	Exclusive Mode = "exclusive"
)

// IsValid checks if the mode is one of the supported values.
func (m Mode) IsValid() bool {
	return m == Inclusive || m == Exclusive
}

// Parse converts a raw value into a Mode. Empty input defaults to Inclusive.
func Parse(s string) (Mode, error) {
	if s == "" {
		return Inclusive, nil
	}
	m := Mode(s)
	if !m.IsValid() {
		return "", fmt.Errorf("invalid filter mode: %q", s)
	}
	return m, nil
}
