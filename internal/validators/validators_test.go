package validators

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

type hoursRequest struct {
	Start string  `json:"start" binding:"required,hhmm"`
	End   *string `json:"end" binding:"omitempty,hhmm"`
}

func TestHHMMTag(t *testing.T) {
	gin.SetMode(gin.TestMode)
	Register()
	Register()

	tests := []struct {
		body string
		ok   bool
	}{
		{`{"start":"09:00"}`, true},
		{`{"start":"23:59","end":"00:00"}`, true},
		{`{"start":"24:00"}`, false},
		{`{"start":"9:00"}`, false},
		{`{"start":"09:60"}`, false},
		{`{"start":"09:00","end":"noon"}`, false},
		{`{}`, false},
	}

	for _, tt := range tests {
		t.Run(tt.body, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			c.Request.Header.Set("Content-Type", "application/json")

			var req hoursRequest
			err := c.ShouldBindJSON(&req)
			if (err == nil) != tt.ok {
				t.Errorf("ShouldBindJSON err = %v, want ok=%v", err, tt.ok)
			}
		})
	}
}

func TestIsEmailDomainValidRejectsMalformed(t *testing.T) {
	for _, email := range []string{"no-at-sign", "trailing@"} {
		if IsEmailDomainValid(email) {
			t.Errorf("%q accepted", email)
		}
	}
}
