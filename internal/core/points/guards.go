// Package points contains the pure business rules for ledger mutations.
// Guards evaluate preconditions without side effects.
package points

import "fmt"

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string
}

// Error converts the guard result to an error if not allowed.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return fmt.Errorf("%s", r.Reason)
}

// CanRemove evaluates whether amount points may be removed from a balance.
// The removal policy is reject-on-underflow: a balance never goes below zero
// and the entry is never deleted by a removal.
func CanRemove(balance, amount int64) GuardResult {
	if amount > balance {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("cannot remove %d points from a balance of %d", amount, balance),
		}
	}
	return GuardResult{Allowed: true}
}

// ValidAmount evaluates whether a parsed amount is usable for a mutation.
// Zero and negative amounts are rejected here rather than in parsing, which
// deliberately passes signs through.
func ValidAmount(amount int64) GuardResult {
	if amount <= 0 {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("amount must be a positive number of points, got %d", amount),
		}
	}
	return GuardResult{Allowed: true}
}
