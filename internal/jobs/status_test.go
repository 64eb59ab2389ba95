package jobs

import "testing"

func TestTriStateRoundTrip(t *testing.T) {
	if BoolToTriState(true) != True {
		t.Errorf("BoolToTriState(true) = %q, want %q", BoolToTriState(true), True)
	}
	if BoolToTriState(false) != False {
		t.Errorf("BoolToTriState(false) = %q, want %q", BoolToTriState(false), False)
	}
	if !True.Bool() {
		t.Error("True.Bool() = false, want true")
	}
	if False.Bool() {
		t.Error("False.Bool() = true, want false")
	}
}

func TestTriStateUnknownValueIsFalse(t *testing.T) {
	var garbage TriState = "garbage"
	if garbage.Bool() {
		t.Error("an unrecognized TriState value must not be treated as true")
	}
}
