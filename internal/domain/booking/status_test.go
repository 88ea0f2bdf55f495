package booking

import "testing"

func TestCanTransition(t *testing.T) {
	allowed := [][2]Status{
		{StatusPending, StatusConfirmed},
		{StatusPending, StatusCancelled},
		{StatusConfirmed, StatusInProgress},
		{StatusConfirmed, StatusActive},
		{StatusInProgress, StatusActive},
		{StatusActive, StatusInProgress},
		{StatusActive, StatusCompleted},
		{StatusInProgress, StatusCancelled},
	}
	for _, tr := range allowed {
		if err := CanTransition(tr[0], tr[1]); err != nil {
			t.Errorf("%s -> %s rejected: %v", tr[0], tr[1], err)
		}
	}

	denied := [][2]Status{
		{StatusPending, StatusCompleted},
		{StatusCompleted, StatusCancelled},
		{StatusCancelled, StatusPending},
		{StatusConfirmed, StatusConfirmed},
		{StatusConfirmed, StatusPending},
	}
	for _, tr := range denied {
		if err := CanTransition(tr[0], tr[1]); err == nil {
			t.Errorf("%s -> %s allowed", tr[0], tr[1])
		}
	}
}

func TestCanCancel(t *testing.T) {
	for _, s := range []Status{StatusPending, StatusConfirmed, StatusInProgress, StatusActive} {
		if err := CanCancel(s); err != nil {
			t.Errorf("cancel from %s: %v", s, err)
		}
	}
	for _, s := range []Status{StatusCompleted, StatusCancelled} {
		if err := CanCancel(s); err == nil {
			t.Errorf("cancel from %s allowed", s)
		}
	}
}

func TestStatusFilter(t *testing.T) {
	tests := map[string]Status{
		"active":    StatusInProgress,
		"pending":   StatusPending,
		"completed": StatusCompleted,
		"CANCELLED": StatusCancelled,
	}
	for in, want := range tests {
		got, ok := StatusFilter(in)
		if !ok || got != want {
			t.Errorf("StatusFilter(%q) = %v, %v", in, got, ok)
		}
	}
	if _, ok := StatusFilter(""); ok {
		t.Error("empty filter should be ignored")
	}
	if _, ok := StatusFilter("archived"); ok {
		t.Error("unknown filter accepted")
	}
}
