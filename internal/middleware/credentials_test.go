package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestCredentials(t *testing.T) {
	cases := map[string]struct {
		header string
		want   string
	}{
		"bearer":       {"Bearer abc.def", "abc.def"},
		"lowercase":    {"bearer abc", "abc"},
		"missing":      {"", ""},
		"wrong scheme": {"Basic dXNlcg==", ""},
		"no token":     {"Bearer", ""},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set(echo.HeaderAuthorization, tc.header)
			}
			c := e.NewContext(req, httptest.NewRecorder())

			var got string
			h := Credentials()(func(c echo.Context) error {
				got = BearerToken(c)
				return nil
			})
			assert.NoError(t, h(c))
			assert.Equal(t, tc.want, got)
		})
	}
}
