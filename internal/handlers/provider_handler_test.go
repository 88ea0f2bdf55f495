package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/venue-booking/internal/httperr"
	"github.com/BruksfildServices01/venue-booking/internal/models"
	ucBooking "github.com/BruksfildServices01/venue-booking/internal/usecase/booking"
)

func providerRouter() *gin.Engine {
	r := gin.New()
	r.Use(withUser("p-1", models.RoleProvider))
	return r
}

func TestEarningsWindow(t *testing.T) {
	from, to, err := earningsWindow("2026-06-01", "2026-06-30")
	if err != nil {
		t.Fatal(err)
	}
	if !from.Equal(time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)) || !to.Equal(time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("window = %v .. %v", from, to)
	}

	from, to, err = earningsWindow("", "")
	if err != nil || from != nil || to != nil {
		t.Errorf("open window = %v %v %v", from, to, err)
	}

	if _, _, err := earningsWindow("2026-06-01", "2026-06-01"); err != nil {
		t.Errorf("single day rejected: %v", err)
	}
	if _, _, err := earningsWindow("2026-06-02", "2026-06-01"); !httperr.IsBusiness(err, "invalid_date_range") {
		t.Errorf("reversed: %v", err)
	}
	if _, _, err := earningsWindow("June", ""); !httperr.IsBusiness(err, "invalid_date") {
		t.Errorf("bad date: %v", err)
	}
}

func TestOwns(t *testing.T) {
	provider := ucBooking.Actor{ID: "p-1", Role: models.RoleProvider}
	admin := ucBooking.Actor{ID: "a-1", Role: models.RoleAdmin}

	if !owns(provider, ptr("p-1")) {
		t.Error("provider should own its row")
	}
	if owns(provider, ptr("p-2")) || owns(provider, nil) {
		t.Error("provider must not own foreign or unowned rows")
	}
	if !owns(admin, nil) {
		t.Error("admin manages every row")
	}
}

func TestProviderRejectsBeforeLookup(t *testing.T) {
	h := NewProviderHandler(nil, nil)
	r := providerRouter()
	r.GET("/earnings", h.Earnings)
	r.GET("/bookings", h.Bookings)
	r.PATCH("/services/:id", h.UpdateService)
	r.PATCH("/venues/:id", h.UpdateVenue)

	tests := []struct {
		method, path, body string
		code               string
	}{
		{http.MethodGet, "/earnings?startDate=2026-06-10&endDate=2026-06-01", "", "invalid_date_range"},
		{http.MethodGet, "/earnings?startDate=10-06-2026", "", "invalid_date"},
		{http.MethodGet, "/bookings?status=archived", "", "invalid_status"},
		{http.MethodPatch, "/services/s-1", `{"serviceType":"juggler"}`, "invalid_service_type"},
		{http.MethodPatch, "/services/s-1", `{"price":-5}`, "invalid_request"},
		{http.MethodPatch, "/venues/v-1", `{"capacity":-1}`, "invalid_request"},
	}
	for _, tt := range tests {
		var body any
		if tt.body != "" {
			body = tt.body
		}
		w := do(t, r, tt.method, tt.path, body)
		if w.Code != http.StatusBadRequest || decodeError(t, w).Code != tt.code {
			t.Errorf("%s %s: status = %d body = %s", tt.method, tt.path, w.Code, w.Body.String())
		}
	}
}

func TestServiceUpdates(t *testing.T) {
	updates, err := serviceUpdates(UpdateServiceRequest{
		Name:          ptr(" Lights "),
		ServiceType:   ptr("dj"),
		WorksInVenues: ptr(false),
	})
	if err != nil {
		t.Fatal(err)
	}
	if updates["name"] != "Lights" || updates["service_type"] != models.ServiceTypeDJ || updates["works_in_venues"] != false {
		t.Errorf("updates = %v", updates)
	}
	if _, ok := updates["price"]; ok {
		t.Error("unset price must not be written")
	}

	if got := venueUpdates(UpdateVenueRequest{}); len(got) != 0 {
		t.Errorf("empty request wrote %v", got)
	}
}
