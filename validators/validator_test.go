package validators

import (
	"net/http"
	"testing"

	"github.com/anonto42/connectly/backend/internal/models"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	v := NewValidator()

	assert.NoError(t, v.Validate(&models.RegisterRequest{
		Name: "Ada", Email: "ada@example.com", Password: "pw", Username: "ada",
	}))

	cases := map[string]struct {
		in      interface{}
		message string
	}{
		"missing field": {
			in:      &models.RegisterRequest{Name: "Ada", Email: "ada@example.com", Username: "ada"},
			message: "All fields are required",
		},
		"bad email": {
			in:      &models.RegisterRequest{Name: "Ada", Email: "nope", Password: "pw", Username: "ada"},
			message: "email must be a valid email address",
		},
		"too long": {
			in:      &models.UpdateUserRequest{Username: string(make([]byte, 51))},
			message: "username must be at most 50 characters",
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			err := v.Validate(tc.in)
			var he *echo.HTTPError
			require.ErrorAs(t, err, &he)
			assert.Equal(t, http.StatusBadRequest, he.Code)
			assert.Equal(t, tc.message, he.Message)
		})
	}
}
