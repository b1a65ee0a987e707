package enums

import "fmt"

// TransactionState represents the settlement state of a purchase.
type TransactionState string

const (
	TransactionStatePending   TransactionState = "pending"
	TransactionStateCompleted TransactionState = "completed"
	TransactionStateCancelled TransactionState = "cancelled"
)

var validTransactionStates = []TransactionState{
	TransactionStatePending,
	TransactionStateCompleted,
	TransactionStateCancelled,
}

// String implements fmt.Stringer.
func (s TransactionState) String() string {
	return string(s)
}

// IsValid reports whether the value is a known TransactionState.
func (s TransactionState) IsValid() bool {
	for _, candidate := range validTransactionStates {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseTransactionState converts raw input into a TransactionState.
func ParseTransactionState(value string) (TransactionState, error) {
	for _, candidate := range validTransactionStates {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid transaction state %q", value)
}
