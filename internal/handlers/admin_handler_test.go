package handlers

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"

	"github.com/BruksfildServices01/venue-booking/internal/httperr"
	"github.com/BruksfildServices01/venue-booking/internal/models"
)

func ptr[T any](v T) *T { return &v }

func TestCheckWorkingHours(t *testing.T) {
	tests := []struct {
		name       string
		start, end *string
		ok         bool
	}{
		{"both unset", nil, nil, true},
		{"valid", ptr("09:00"), ptr("22:00"), true},
		{"only start", ptr("09:00"), nil, false},
		{"reversed", ptr("22:00"), ptr("09:00"), false},
		{"equal", ptr("10:00"), ptr("10:00"), false},
		{"bad clock", ptr("9am"), ptr("22:00"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkWorkingHours(tt.start, tt.end)
			if (err == nil) != tt.ok {
				t.Errorf("err = %v, want ok=%v", err, tt.ok)
			}
			if err != nil && !httperr.IsBusiness(err, "invalid_working_hours") {
				t.Errorf("code = %v", err)
			}
		})
	}
}

func adminRouter() *gin.Engine {
	r := gin.New()
	r.Use(withUser("admin-1", models.RoleAdmin))
	return r
}

func TestWorkingHoursHandlerRejectsBeforeLookup(t *testing.T) {
	h := NewWorkingHoursHandler(nil, nil)
	r := adminRouter()
	r.PATCH("/venues/:id/working-hours", h.Update)

	for _, body := range []string{
		`{"workingHoursStart":"9:00","workingHoursEnd":"22:00"}`,
		`{"workingHoursStart":"22:00","workingHoursEnd":"09:00"}`,
		`{"workingHoursStart":"09:00"}`,
	} {
		w := do(t, r, http.MethodPatch, "/venues/v-1/working-hours", body)
		if w.Code != http.StatusBadRequest || decodeError(t, w).Code != "invalid_working_hours" {
			t.Errorf("%s: status = %d body = %s", body, w.Code, w.Body.String())
		}
	}
}

func TestCreateVenueValidation(t *testing.T) {
	h := NewAdminVenueHandler(nil, nil)
	r := adminRouter()
	r.POST("/venues", h.Create)

	tests := []struct {
		body string
		code string
	}{
		{`{"price":10}`, "invalid_request"},
		{`{"name":"Hall","price":-1}`, "invalid_request"},
		{`{"name":"Hall","serviceIds":["not-a-uuid"]}`, "invalid_request"},
		{`{"name":"Hall","workingHoursStart":"25:00","workingHoursEnd":"22:00"}`, "invalid_request"},
		{`{"name":"Hall","workingHoursStart":"18:00","workingHoursEnd":"08:00"}`, "invalid_working_hours"},
	}
	for _, tt := range tests {
		w := do(t, r, http.MethodPost, "/venues", tt.body)
		if w.Code != http.StatusBadRequest || decodeError(t, w).Code != tt.code {
			t.Errorf("%s: status = %d body = %s", tt.body, w.Code, w.Body.String())
		}
	}
}

func TestServiceType(t *testing.T) {
	tests := []struct {
		raw  string
		want string
		ok   bool
	}{
		{"", models.ServiceTypeOther, true},
		{"dj", models.ServiceTypeDJ, true},
		{" food_provider ", models.ServiceTypeFoodProvider, true},
		{"juggler", "", false},
	}
	for _, tt := range tests {
		got, ok := serviceType(tt.raw)
		if got != tt.want || ok != tt.ok {
			t.Errorf("serviceType(%q) = %q, %v", tt.raw, got, ok)
		}
	}

	h := NewAdminServiceHandler(nil, nil)
	r := adminRouter()
	r.POST("/services", h.Create)
	w := do(t, r, http.MethodPost, "/services", `{"name":"Juggling","serviceType":"juggler"}`)
	if w.Code != http.StatusBadRequest || decodeError(t, w).Code != "invalid_service_type" {
		t.Errorf("status = %d body = %s", w.Code, w.Body.String())
	}
}

func TestHolidayValidation(t *testing.T) {
	h := NewHolidayHandler(nil, nil, nil)
	r := adminRouter()
	r.POST("/venues/:id/holidays", h.CreateVenue)
	r.POST("/services/:id/holidays", h.CreateService)

	for _, path := range []string{"/venues/v-1/holidays", "/services/s-1/holidays"} {
		if w := do(t, r, http.MethodPost, path, `{"reason":"Eid"}`); w.Code != http.StatusBadRequest {
			t.Errorf("%s missing date: status = %d", path, w.Code)
		}
		w := do(t, r, http.MethodPost, path, `{"date":"01/06/2026"}`)
		if w.Code != http.StatusBadRequest || decodeError(t, w).Code != "invalid_date" {
			t.Errorf("%s bad date: status = %d body = %s", path, w.Code, w.Body.String())
		}
	}

	if !httperr.IsKind(errDuplicateHoliday, httperr.KindConflict) {
		t.Error("duplicate holiday must be a conflict")
	}
}

func TestAppendImages(t *testing.T) {
	tests := []struct {
		name    string
		current datatypes.JSON
		want    string
	}{
		{"empty column", nil, `["u1","u2"]`},
		{"null column", datatypes.JSON("null"), `["u1","u2"]`},
		{"existing", datatypes.JSON(`["u0"]`), `["u0","u1","u2"]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := appendImages(tt.current, []string{"u1", "u2"})
			if err != nil {
				t.Fatal(err)
			}
			if string(got) != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}

	if _, err := appendImages(datatypes.JSON(`{"not":"array"}`), nil); err == nil {
		t.Error("expected decode error")
	}
}

type nopUploader struct{}

func (nopUploader) Put(context.Context, string, string, []byte) (string, error) {
	return "https://cdn.example.com/x.webp", nil
}

func TestUploadVenueImagesValidation(t *testing.T) {
	t.Run("storage disabled", func(t *testing.T) {
		h := NewImageHandler(nil, nil, 0, nil)
		r := adminRouter()
		r.POST("/venues/:id/images", h.UploadVenueImages)

		w := do(t, r, http.MethodPost, "/venues/v-1/images", nil)
		if w.Code != http.StatusServiceUnavailable {
			t.Errorf("status = %d", w.Code)
		}
	})

	t.Run("not multipart", func(t *testing.T) {
		h := NewImageHandler(nil, nopUploader{}, 0, nil)
		r := adminRouter()
		r.POST("/venues/:id/images", h.UploadVenueImages)

		w := do(t, r, http.MethodPost, "/venues/v-1/images", `{}`)
		if w.Code != http.StatusBadRequest || decodeError(t, w).Code != "invalid_upload" {
			t.Errorf("status = %d body = %s", w.Code, w.Body.String())
		}
	})

	t.Run("oversized and empty", func(t *testing.T) {
		h := NewImageHandler(nil, nopUploader{}, 8, nil)
		r := adminRouter()
		r.POST("/venues/:id/images", h.UploadVenueImages)

		send := func(field string, content []byte) *httptest.ResponseRecorder {
			var buf bytes.Buffer
			mw := multipart.NewWriter(&buf)
			if field != "" {
				fw, _ := mw.CreateFormFile(field, "hall.png")
				_, _ = fw.Write(content)
			} else {
				_ = mw.WriteField("caption", "none")
			}
			_ = mw.Close()

			req := httptest.NewRequest(http.MethodPost, "/venues/v-1/images", &buf)
			req.Header.Set("Content-Type", mw.FormDataContentType())
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			return w
		}

		if w := send("", nil); decodeError(t, w).Code != "no_images" {
			t.Errorf("no files: %s", w.Body.String())
		}
		if w := send("images", []byte("0123456789abcdef")); decodeError(t, w).Code != "image_too_large" {
			t.Errorf("big file: %s", w.Body.String())
		}
	})
}
