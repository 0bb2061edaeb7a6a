package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPage(t *testing.T) {
	p := NewPage([]int{1, 2}, 5, 1, 2)
	require.NotNil(t, p.Next)
	assert.Equal(t, 2, *p.Next)
	assert.Nil(t, p.Previous)

	last := NewPage([]int{5}, 5, 3, 2)
	assert.Nil(t, last.Next)
	require.NotNil(t, last.Previous)
	assert.Equal(t, 2, *last.Previous)
}

func TestErrorWithDetails(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request", map[string]string{"tags": "required"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var body struct {
		Success bool `json:"success"`
		Error   struct {
			Code    string            `json:"code"`
			Details map[string]string `json:"details"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, "VALIDATION_ERROR", body.Error.Code)
	assert.Equal(t, "required", body.Error.Details["tags"])
}
