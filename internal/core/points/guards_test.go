package points

import "testing"

func TestCanRemove(t *testing.T) {
	tests := []struct {
		name    string
		balance int64
		amount  int64
		allowed bool
	}{
		{"smaller than balance", 10, 3, true},
		{"exact balance", 10, 10, true},
		{"underflow", 8, 10, false},
		{"zero balance", 0, 1, false},
		{"zero amount", 5, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CanRemove(tt.balance, tt.amount)
			if result.Allowed != tt.allowed {
				t.Errorf("CanRemove(%d, %d): expected allowed=%v, got %v",
					tt.balance, tt.amount, tt.allowed, result.Allowed)
			}
			if !tt.allowed {
				if result.Reason == "" {
					t.Error("disallowed guard carries no reason")
				}
				if result.Error() == nil {
					t.Error("disallowed guard yields nil error")
				}
			} else if result.Error() != nil {
				t.Errorf("allowed guard yields error: %v", result.Error())
			}
		})
	}
}

func TestValidAmount(t *testing.T) {
	if r := ValidAmount(1); !r.Allowed {
		t.Errorf("expected 1 allowed, got %v", r.Reason)
	}
	if r := ValidAmount(0); r.Allowed {
		t.Error("expected 0 rejected")
	}
	if r := ValidAmount(-5); r.Allowed {
		t.Error("expected -5 rejected")
	}
}
