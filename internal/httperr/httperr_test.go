package httperr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestBusinessErrorStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", Validation("bad", "bad input"), http.StatusBadRequest},
		{"legacy", ErrBusiness("time_conflict"), http.StatusBadRequest},
		{"not found", NotFound("Booking"), http.StatusNotFound},
		{"forbidden", Forbidden("no"), http.StatusForbidden},
		{"unauthorized", Unauthorized("who"), http.StatusUnauthorized},
		{"conflict", Conflict("dup", "dup"), http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var be BusinessError
			if !errors.As(tt.err, &be) {
				t.Fatalf("not a BusinessError: %v", tt.err)
			}
			if be.Status() != tt.want {
				t.Errorf("Status() = %d, want %d", be.Status(), tt.want)
			}
		})
	}
}

func TestNotFoundMessage(t *testing.T) {
	err := NotFound("Venue")
	if err.Error() != "venue not found" {
		t.Errorf("Error() = %q", err.Error())
	}
	if !IsBusiness(err, "venue_not_found") {
		t.Errorf("expected code venue_not_found")
	}
}

func TestIsBusinessWrapped(t *testing.T) {
	err := fmt.Errorf("create: %w", Validation("slot_conflict", "time slot conflicts with existing booking"))
	if !IsBusiness(err, "slot_conflict") {
		t.Error("wrapped business error not detected")
	}
	if !IsKind(err, KindValidation) {
		t.Error("wrapped kind not detected")
	}
}

func TestRespond(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("business error", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/x", nil)

		Respond(c, Forbidden("you do not have access to this booking"))

		if w.Code != http.StatusForbidden {
			t.Fatalf("status = %d", w.Code)
		}
		var body HTTPError
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatal(err)
		}
		if body.Success || body.Message != "you do not have access to this booking" || body.Code != "forbidden" {
			t.Errorf("body = %+v", body)
		}
	})

	t.Run("unexpected error hides detail", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/x", nil)

		Respond(c, errors.New("dial tcp 10.0.0.1:5432: connection refused"))

		if w.Code != http.StatusInternalServerError {
			t.Fatalf("status = %d", w.Code)
		}
		var body HTTPError
		_ = json.Unmarshal(w.Body.Bytes(), &body)
		if body.Message != "something went wrong" {
			t.Errorf("leaked message %q", body.Message)
		}
	})
}

func TestPgCodes(t *testing.T) {
	unique := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})
	exclusion := &pgconn.PgError{Code: "23P01"}

	if !IsUniqueViolation(unique) || IsExclusionConflict(unique) {
		t.Error("unique violation misclassified")
	}
	if !IsExclusionConflict(exclusion) || IsUniqueViolation(exclusion) {
		t.Error("exclusion violation misclassified")
	}
	if IsUniqueViolation(errors.New("other")) {
		t.Error("plain error classified as pg error")
	}
}
