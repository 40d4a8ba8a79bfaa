// Package webtest helps handler tests build sessions and requests.
package webtest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/goinsights/goinsights/internal/auth"
	"github.com/goinsights/goinsights/internal/web/session"
)

// Password is the password of users created by Session.
const Password = "s3cr3t"

// Session seeds the roles, creates a user with the role and returns a
// session id logged in as that user.
func Session(t *testing.T, db *gorm.DB, username, role string) string {
	t.Helper()

	if session.Store == nil {
		session.Init(nil)
	}

	require.NoError(t, auth.SeedRoles(db))

	user, err := auth.NewLocalProvider(db).CreateUser(username, username+"@example.com", Password, username, role)
	require.NoError(t, err)

	sid, err := session.GenerateSessionID()
	require.NoError(t, err)
	require.NoError(t, (&session.Data{User: *user}).Write(sid, time.Hour))

	return sid
}

// PostJSON sends body as JSON with the session cookie, if any.
func PostJSON(t *testing.T, app *fiber.App, path, sid string, body any) (int, []byte) {
	t.Helper()

	var reader io.Reader

	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)

		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(http.MethodPost, path, reader)
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	return Do(t, app, req, sid)
}

// Do runs the request against app and returns status and body.
func Do(t *testing.T, app *fiber.App, req *http.Request, sid string) (int, []byte) {
	t.Helper()

	if sid != "" {
		req.AddCookie(&http.Cookie{Name: session.CookieName, Value: sid})
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	defer func() { _ = resp.Body.Close() }()

	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp.StatusCode, out
}
