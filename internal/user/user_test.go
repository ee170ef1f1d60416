package user

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	u, err := Get("user-2")
	require.NoError(t, err)
	assert.Equal(t, "Sarah Johnson", u.Name)

	_, err = Get("nobody")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestCtx(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{header: "user-1", want: "John Smith"},
		{header: "", want: CurrentUserName},
		{header: "nobody", want: CurrentUserName},
	}

	for _, tt := range tests {
		var got *User
		h := Ctx(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = FromContext(r.Context())
		}))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if tt.header != "" {
			req.Header.Set(Header, tt.header)
		}
		h.ServeHTTP(httptest.NewRecorder(), req)

		require.NotNil(t, got)
		assert.Equal(t, tt.want, got.Name, tt.header)
	}
}
