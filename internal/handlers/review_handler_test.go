package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/venue-booking/internal/httperr"
	"github.com/BruksfildServices01/venue-booking/internal/models"
)

func TestSummarizeRatings(t *testing.T) {
	tests := []struct {
		name    string
		ratings []int
		avg     float64
		count   int
	}{
		{"none left", nil, 0, 0},
		{"single", []int{4}, 4, 1},
		{"rounded", []int{5, 4, 4}, 4.33, 3},
		{"half", []int{5, 4}, 4.5, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			avg, count := summarizeRatings(tt.ratings)
			if avg != tt.avg || count != tt.count {
				t.Errorf("got %v/%d, want %v/%d", avg, count, tt.avg, tt.count)
			}
		})
	}
}

func TestReviewFromRequest(t *testing.T) {
	review, err := reviewFromRequest("u-1", CreateReviewRequest{
		VenueID: ptr(" v-1 "),
		Rating:  5,
		Comment: ptr("  "),
	})
	if err != nil {
		t.Fatal(err)
	}
	if review.UserID != "u-1" || review.VenueID == nil || *review.VenueID != "v-1" || review.ServiceID != nil {
		t.Errorf("review = %+v", review)
	}
	if review.Comment != nil {
		t.Errorf("blank comment kept: %q", *review.Comment)
	}

	target := targetOf(&review)
	if target.column != "venue_id" || target.id != "v-1" {
		t.Errorf("target = %+v", target)
	}

	svcReview := models.Review{ServiceID: ptr("s-1")}
	if target := targetOf(&svcReview); target.column != "service_id" || target.resource != "Service" {
		t.Errorf("service target = %+v", target)
	}

	if _, err := reviewFromRequest("u-1", CreateReviewRequest{Rating: 3, ServiceID: ptr("")}); !httperr.IsBusiness(err, "review_target_required") {
		t.Errorf("no target: %v", err)
	}
	if _, err := reviewFromRequest("u-1", CreateReviewRequest{Rating: 3, VenueID: ptr("v"), ServiceID: ptr("s")}); !httperr.IsBusiness(err, "review_target_ambiguous") {
		t.Errorf("two targets: %v", err)
	}
}

func TestCreateReviewValidation(t *testing.T) {
	h := NewReviewHandler(nil, nil)
	r := gin.New()
	r.Use(withUser("u-1", models.RoleCustomer))
	r.POST("/reviews", h.Create)

	tests := []struct {
		body string
		code string
	}{
		{`{"venueId":"v-1"}`, "invalid_request"},
		{`{"venueId":"v-1","rating":6}`, "invalid_request"},
		{`{"rating":4}`, "review_target_required"},
		{`{"venueId":"v-1","serviceId":"s-1","rating":4}`, "review_target_ambiguous"},
	}
	for _, tt := range tests {
		w := do(t, r, http.MethodPost, "/reviews", tt.body)
		if w.Code != http.StatusBadRequest || decodeError(t, w).Code != tt.code {
			t.Errorf("%s: status = %d body = %s", tt.body, w.Code, w.Body.String())
		}
	}
}
