package core

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestLiveness(t *testing.T) {
	app := gin.New()
	InitProbes(app)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/healthz", nil)
	app.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
