package middleware

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/roadmapdb/internal/logger"
	"github.com/localnerve/roadmapdb/internal/services"
	"github.com/localnerve/roadmapdb/internal/testutil"
	"github.com/localnerve/roadmapdb/internal/types"
	"github.com/localnerve/roadmapdb/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupAuthApp(t *testing.T) (*fiber.App, *services.AuthService) {
	t.Helper()
	auth := services.NewAuthService(testutil.NewTestDB(t), "middleware-secret", time.Hour)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var custom *types.CustomError
			if errors.As(err, &custom) {
				return utils.CodedErrorResponse(c, custom.Message, custom.Status, custom.Type, custom.Code)
			}
			return fiber.DefaultErrorHandler(c, err)
		},
	})
	app.Use(RequestID(), RequestContext(logger.Nop()))

	whoami := func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		if user == nil {
			return c.SendString("anonymous")
		}
		return c.SendString(user.Username)
	}
	app.Get("/private", RequireAuth(auth), whoami)
	app.Get("/admin", RequireAuth(auth), RequireAdmin(), whoami)
	app.Get("/maybe", OptionalAuth(auth), whoami)
	return app, auth
}

func get(t *testing.T, app *fiber.App, path, authorization string) (*http.Response, string) {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func TestRequireAuth(t *testing.T) {
	app, auth := setupAuthApp(t)
	user := testutil.CreateUser(t, auth.DB, "alice", false)
	token, err := auth.IssueToken(user)
	require.NoError(t, err)

	resp, body := get(t, app, "/private", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, body, types.CodeAuthHeaderMissing)

	resp, body = get(t, app, "/private", "Bearer "+token)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "alice", body)

	// lower case scheme is accepted
	resp, _ = get(t, app, "/private", "bearer "+token)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, auth.DB.Delete(user).Error)
	resp, body = get(t, app, "/private", "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, body, types.CodeUserNotFound)
}

func TestRequireAdmin(t *testing.T) {
	app, auth := setupAuthApp(t)
	member := testutil.CreateUser(t, auth.DB, "member", false)
	admin := testutil.CreateUser(t, auth.DB, "root", true)
	memberToken, _ := auth.IssueToken(member)
	adminToken, _ := auth.IssueToken(admin)

	resp, body := get(t, app, "/admin", "Bearer "+memberToken)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Contains(t, body, types.CodeAdminRequired)

	resp, body = get(t, app, "/admin", "Bearer "+adminToken)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "root", body)
}

func TestOptionalAuth(t *testing.T) {
	app, auth := setupAuthApp(t)
	user := testutil.CreateUser(t, auth.DB, "bob", false)
	token, _ := auth.IssueToken(user)

	_, body := get(t, app, "/maybe", "")
	assert.Equal(t, "anonymous", body)

	_, body = get(t, app, "/maybe", "Bearer not-a-token")
	assert.Equal(t, "anonymous", body)

	_, body = get(t, app, "/maybe", "Bearer "+token)
	assert.Equal(t, "bob", body)
}

func TestRequestIDHeader(t *testing.T) {
	app, _ := setupAuthApp(t)

	resp, _ := get(t, app, "/maybe", "")
	assert.NotEmpty(t, resp.Header.Get(fiber.HeaderXRequestID))

	req := httptest.NewRequest("GET", "/maybe", nil)
	req.Header.Set(fiber.HeaderXRequestID, "fixed-id")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, "fixed-id", resp.Header.Get(fiber.HeaderXRequestID))
}
