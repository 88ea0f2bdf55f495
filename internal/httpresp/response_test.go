package httpresp

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestPage(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Page[string](c, nil, 21, 2, 10)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var body PageResponse[string]
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if !body.Success || body.Data == nil || len(body.Data) != 0 {
		t.Errorf("body = %+v", body)
	}
	if body.Pagination.TotalPages != 3 || body.Pagination.Page != 2 {
		t.Errorf("pagination = %+v", body.Pagination)
	}
}

func TestCreated(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Created(c, "Booking created successfully", gin.H{"id": "b-1"})

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d", w.Code)
	}
	var body map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	if body["success"] != true || body["message"] != "Booking created successfully" {
		t.Errorf("body = %v", body)
	}
}
