package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestFromQuery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		query string
		want  Params
	}{
		{"", Params{Page: 1, Limit: 6}},
		{"page=3&limit=10", Params{Page: 3, Limit: 10}},
		{"page=0&limit=-1", Params{Page: 1, Limit: 6}},
		{"page=x&limit=1000", Params{Page: 1, Limit: MaxLimit}},
	}
	for _, tc := range cases {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest("GET", "/?"+tc.query, nil)
		assert.Equal(t, tc.want, FromQuery(c, 6), tc.query)
	}
	assert.Equal(t, 20, Params{Page: 3, Limit: 10}.Offset())
}
