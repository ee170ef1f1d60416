package user

import (
	"context"
	"net/http"

	"github.com/pkg/errors"
)

const (
	CurrentUserID   = "current-user"
	CurrentUserName = "Current User"

	// Header lets a caller say who is writing. There is no authentication.
	Header = "X-User-ID"
)

var ErrNotFound = errors.New("user not found")

type User struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// User fixture data
var users = []*User{
	{ID: "user-1", Name: "John Smith"},
	{ID: "user-2", Name: "Sarah Johnson"},
	{ID: "user-3", Name: "Michael Chen"},
	{ID: CurrentUserID, Name: CurrentUserName},
}

func Current() *User {
	return &User{ID: CurrentUserID, Name: CurrentUserName}
}

func Get(id string) (*User, error) {
	for _, u := range users {
		if u.ID == id {
			c := *u
			return &c, nil
		}
	}

	return nil, errors.Wrapf(ErrNotFound, "id %q", id)
}

type ctxKey int8

const userCtxKey ctxKey = 0

// Ctx middleware resolves the author named by the X-User-ID header and puts
// it on the request context. Unknown or missing ids fall back to Current.
func Ctx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, err := Get(r.Header.Get(Header))
		if err != nil {
			u = Current()
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userCtxKey, u)))
	})
}

// FromContext returns the author stored by Ctx, or Current.
func FromContext(ctx context.Context) *User {
	if u, ok := ctx.Value(userCtxKey).(*User); ok {
		return u
	}

	return Current()
}
