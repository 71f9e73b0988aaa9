package authkit_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/oshimizu/authkit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type serverFixture struct {
	*authFixture
	app *fiber.App
}

func newServerFixture(t *testing.T) *serverFixture {
	t.Helper()

	f := newAuthFixture(t)
	controller := authkit.NewAuthController(f.auth, nil)
	return &serverFixture{
		authFixture: f,
		app:         authkit.NewServer(controller, nil),
	}
}

func (f *serverFixture) postJSON(t *testing.T, path string, body any, cookies ...*http.Cookie) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}

	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeMessage(t *testing.T, resp *http.Response) string {
	t.Helper()

	var out struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out.Message
}

func sessionCookies(t *testing.T, resp *http.Response) (access, refresh *http.Cookie) {
	t.Helper()

	for _, cookie := range resp.Cookies() {
		switch cookie.Name {
		case authkit.CookieAccessToken:
			access = cookie
		case authkit.CookieRefreshToken:
			refresh = cookie
		}
	}
	return access, refresh
}

func TestSignupRoute(t *testing.T) {
	t.Run("accepts a valid signup", func(t *testing.T) {
		f := newServerFixture(t)
		resp := f.postJSON(t, "/auth/signup", map[string]string{
			"email":    testEmail,
			"password": testPassword,
		})

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "Signup success", decodeMessage(t, resp))
		f.mailer.last(t)
	})

	t.Run("extra body field is a 400", func(t *testing.T) {
		f := newServerFixture(t)
		resp := f.postJSON(t, "/auth/signup", map[string]string{
			"email":    testEmail,
			"password": testPassword,
			"admin":    "true",
		})

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("duplicate verified signup is a 409", func(t *testing.T) {
		f := newServerFixture(t)
		f.verified(t)

		resp := f.postJSON(t, "/auth/signup", map[string]string{
			"email":    testEmail,
			"password": testPassword,
		})
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("mail failure is reported, not hidden", func(t *testing.T) {
		f := newServerFixture(t)
		f.mailer.fail = true

		resp := f.postJSON(t, "/auth/signup", map[string]string{
			"email":    testEmail,
			"password": testPassword,
		})
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		assert.NotContains(t, decodeMessage(t, resp), "connection refused")
	})
}

func TestVerifyRoute(t *testing.T) {
	t.Run("verifies with the mailed token", func(t *testing.T) {
		f := newServerFixture(t)
		f.signedUp(t)

		resp := f.postJSON(t, "/auth/verify", map[string]string{
			"email": testEmail,
			"token": f.verifyToken(t),
		})
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		account, err := f.store.Find(context.Background(), testEmail)
		require.NoError(t, err)
		assert.True(t, account.Verified)
	})

	t.Run("wrong email is a 400", func(t *testing.T) {
		f := newServerFixture(t)
		f.signedUp(t)

		resp := f.postJSON(t, "/auth/verify", map[string]string{
			"email": "other@b.com",
			"token": f.verifyToken(t),
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestLoginRoute(t *testing.T) {
	t.Run("sets both session cookies", func(t *testing.T) {
		f := newServerFixture(t)
		f.verified(t)

		resp := f.postJSON(t, "/auth/login", map[string]string{
			"email":    testEmail,
			"password": testPassword,
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)

		access, refresh := sessionCookies(t, resp)
		require.NotNil(t, access)
		require.NotNil(t, refresh)
		assert.True(t, access.HttpOnly)
		assert.True(t, refresh.HttpOnly)
		assert.Equal(t, 15*60*60, access.MaxAge)
		assert.Equal(t, 30*24*60*60, refresh.MaxAge)

		// the persisted refresh token equals the cookie value
		account, err := f.store.Find(context.Background(), testEmail)
		require.NoError(t, err)
		assert.Equal(t, refresh.Value, account.RefreshToken)
	})

	t.Run("unverified account is a 403", func(t *testing.T) {
		f := newServerFixture(t)
		f.signedUp(t)

		resp := f.postJSON(t, "/auth/login", map[string]string{
			"email":    testEmail,
			"password": testPassword,
		})
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("unknown account is a 404", func(t *testing.T) {
		f := newServerFixture(t)
		resp := f.postJSON(t, "/auth/login", map[string]string{
			"email":    testEmail,
			"password": testPassword,
		})
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("wrong password is a 400", func(t *testing.T) {
		f := newServerFixture(t)
		f.verified(t)

		resp := f.postJSON(t, "/auth/login", map[string]string{
			"email":    testEmail,
			"password": "Wrong123!",
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestLogoutRoute(t *testing.T) {
	t.Run("clears cookies and revokes the session", func(t *testing.T) {
		f := newServerFixture(t)
		f.verified(t)

		login := f.postJSON(t, "/auth/login", map[string]string{
			"email":    testEmail,
			"password": testPassword,
		})
		_, refresh := sessionCookies(t, login)
		require.NotNil(t, refresh)

		resp := f.postJSON(t, "/auth/logout", nil, refresh)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		access, cleared := sessionCookies(t, resp)
		require.NotNil(t, access)
		require.NotNil(t, cleared)
		assert.Empty(t, cleared.Value)

		account, err := f.store.Find(context.Background(), testEmail)
		require.NoError(t, err)
		assert.Empty(t, account.RefreshToken)
	})

	t.Run("missing cookie is a 400", func(t *testing.T) {
		f := newServerFixture(t)
		resp := f.postJSON(t, "/auth/logout", nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestRefreshRoute(t *testing.T) {
	t.Run("sets a fresh access cookie", func(t *testing.T) {
		f := newServerFixture(t)
		f.verified(t)

		login := f.postJSON(t, "/auth/login", map[string]string{
			"email":    testEmail,
			"password": testPassword,
		})
		_, refresh := sessionCookies(t, login)
		require.NotNil(t, refresh)

		resp := f.postJSON(t, "/auth/refresh", nil, refresh)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		access, _ := sessionCookies(t, resp)
		require.NotNil(t, access)
		assert.NotEmpty(t, access.Value)
	})

	t.Run("a revoked refresh token is a 400", func(t *testing.T) {
		f := newServerFixture(t)
		pair := f.loggedIn(t)
		require.NoError(t, f.auth.Logout(context.Background(), pair.RefreshToken))

		resp := f.postJSON(t, "/auth/refresh", nil, &http.Cookie{
			Name:  authkit.CookieRefreshToken,
			Value: pair.RefreshToken,
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestDeleteAccountRoute(t *testing.T) {
	t.Run("requires both cookies", func(t *testing.T) {
		f := newServerFixture(t)
		pair := f.loggedIn(t)

		resp := f.postJSON(t, "/auth/delete-account", nil, &http.Cookie{
			Name:  authkit.CookieRefreshToken,
			Value: pair.RefreshToken,
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("deletes the account", func(t *testing.T) {
		f := newServerFixture(t)
		pair := f.loggedIn(t)

		resp := f.postJSON(t, "/auth/delete-account", nil,
			&http.Cookie{Name: authkit.CookieRefreshToken, Value: pair.RefreshToken},
			&http.Cookie{Name: authkit.CookieAccessToken, Value: pair.AccessToken},
		)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		_, err := f.store.Find(context.Background(), testEmail)
		requireTextCode(t, err, "ACCOUNT_NOT_FOUND")
	})
}

func TestUnknownRoute(t *testing.T) {
	f := newServerFixture(t)
	resp := f.postJSON(t, "/auth/nope", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
