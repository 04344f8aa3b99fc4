package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/mentortrack-api/internal/middleware"
	"github.com/noah-isme/mentortrack-api/internal/models"
)

type responseEnvelope struct {
	Data       json.RawMessage        `json:"data"`
	Error      *struct{ Code string } `json:"error"`
	Pagination *models.Pagination     `json:"pagination"`
	Meta       map[string]interface{} `json:"meta"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) responseEnvelope {
	t.Helper()
	var envelope responseEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode envelope: %v (%s)", err, rec.Body.String())
	}
	return envelope
}

// newTestContext builds a gin context carrying the given actor and optional JSON body.
func newTestContext(method, target string, actor models.Actor, body interface{}) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)

	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	c.Request = httptest.NewRequest(method, target, reader)
	c.Request.Header.Set("Content-Type", "application/json")
	if actor != nil {
		c.Set(middleware.ContextActorKey, actor)
	}
	return c, rec
}

func withParam(c *gin.Context, key, value string) {
	c.Params = append(c.Params, gin.Param{Key: key, Value: value})
}

var (
	testMentor  = models.NewMentorActor("user-m", "mentor-1", "Dr. Rao")
	testStudent = models.NewStudentActor("user-s", "student-1", "Ben")
	testParent  = models.NewParentActor("user-p", "parent-1", "Pat")
	testAdmin   = models.NewAdminActor("user-a", "Root")
)

func TestActorHelpersRejectWrongRole(t *testing.T) {
	c, rec := newTestContext(http.MethodGet, "/", testStudent, nil)
	if _, ok := mentorFromContext(c); ok {
		t.Fatal("student resolved as mentor")
	}
	if rec.Code != http.StatusForbidden {
		t.Fatalf("unexpected status: %d", rec.Code)
	}

	c, rec = newTestContext(http.MethodGet, "/", nil, nil)
	if _, ok := actorFromContext(c); ok {
		t.Fatal("missing actor resolved")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
}
