package probe

import "fmt"

// NotFoundError is returned when an element lookup matches nothing. It fails
// immediately and names the search criterion.
type NotFoundError struct {
	By By
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("probe: no element matching %s", e.By)
}

// MismatchError is returned when an assertion predicate diverges from the
// observed state. It names the predicate and both the expected and actual
// values.
type MismatchError struct {
	Assertion string
	Expected  string
	Actual    string
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("probe: %s failed: expected %s, actual %s",
		e.Assertion, e.Expected, e.Actual)
}

// UnsupportedError is returned when a substrate-exclusive operation is
// invoked against a substrate that cannot perform it.
type UnsupportedError struct {
	Op        string
	Substrate Substrate
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("probe: %s is not supported on the %s substrate", e.Op, e.Substrate)
}
