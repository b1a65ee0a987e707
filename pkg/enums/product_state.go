package enums

import "fmt"

// ProductState represents the lifecycle state of a listing.
type ProductState string

const (
	ProductStateAvailable ProductState = "available"
	ProductStateSold      ProductState = "sold"
	ProductStateSuspended ProductState = "suspended"
)

var validProductStates = []ProductState{
	ProductStateAvailable,
	ProductStateSold,
	ProductStateSuspended,
}

// String implements fmt.Stringer.
func (s ProductState) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ProductState.
func (s ProductState) IsValid() bool {
	for _, candidate := range validProductStates {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseProductState converts raw input into a ProductState.
func ParseProductState(value string) (ProductState, error) {
	for _, candidate := range validProductStates {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product state %q", value)
}
