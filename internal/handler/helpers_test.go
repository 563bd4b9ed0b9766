package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/mperez230-ship-it/MiniBanco/shared/models"
)

// fakeAuth attaches an actor the way AuthMiddleware does. An empty id leaves
// the request anonymous.
func fakeAuth(actor models.Actor) gin.HandlerFunc {
	return func(c *gin.Context) {
		if actor.ID != "" {
			c.Set("userId", actor.ID)
			c.Set("role", actor.Role)
		}
		c.Next()
	}
}

func doRequest(router http.Handler, method, url string, body any) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, url, nil)
	if body != nil {
		var raw string
		if s, ok := body.(string); ok {
			raw = s
		} else {
			b, _ := json.Marshal(body)
			raw = string(b)
		}
		req, _ = http.NewRequest(method, url, strings.NewReader(raw))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func errorBody(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not JSON: %s", w.Body.String())
	}
	msg, _ := body["error"].(string)
	return msg
}

var (
	testAdmin = models.Actor{ID: "admin", Role: models.RoleAdmin}
	testUser  = models.Actor{ID: "u1", Role: models.RoleUser}
)
