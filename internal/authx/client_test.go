package authx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harinadareddy11/account-vault/internal/common"
)

func signedToken(t *testing.T, sub string) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": sub})
	s, err := tok.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return s
}

func TestClient_UpdatePassword(t *testing.T) {
	var gotAuth, gotPassword string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/auth/v1/user", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		gotPassword = body["password"]
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok-123", time.Second)
	require.NoError(t, c.UpdatePassword(context.Background(), "new-pass"))
	assert.Equal(t, "Bearer tok-123", gotAuth)
	assert.Equal(t, "new-pass", gotPassword)
}

func TestClient_UpdatePasswordRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid token", http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "stale", time.Second)
	err := c.UpdatePassword(context.Background(), "new-pass")
	assert.True(t, errors.Is(err, common.ErrAuth))
}

func TestClient_Session(t *testing.T) {
	c := NewClient("http://unused", signedToken(t, "user-42"), time.Second)

	sess, err := c.Session(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "user-42", sess.UserID)
}

func TestClient_SessionErrors(t *testing.T) {
	_, err := NewClient("http://unused", "", time.Second).Session(context.Background())
	assert.True(t, errors.Is(err, common.ErrAuth))

	_, err = NewClient("http://unused", "not-a-jwt", time.Second).Session(context.Background())
	assert.True(t, errors.Is(err, common.ErrAuth))
}
