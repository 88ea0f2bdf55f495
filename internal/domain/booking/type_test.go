package booking

import (
	"errors"
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		venue, services bool
		want            Type
		wantErr         bool
	}{
		{true, false, TypeVenueOnly, false},
		{false, true, TypeServicesOnly, false},
		{true, true, TypeMixed, false},
		{false, false, "", true},
	}

	for _, tt := range tests {
		got, err := Classify(tt.venue, tt.services)
		if tt.wantErr {
			if !errors.Is(err, ErrEmptyBooking) {
				t.Errorf("Classify(%v,%v) err = %v", tt.venue, tt.services, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("Classify(%v,%v) = %v, %v; want %v", tt.venue, tt.services, got, err, tt.want)
		}
	}
}
