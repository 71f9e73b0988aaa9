package authkit

import (
	"time"

	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
)

const (
	// CookieAccessToken carries the access token between requests.
	CookieAccessToken = "auth_token"
	// CookieRefreshToken carries the refresh token between requests.
	CookieRefreshToken = "refresh_token"
)

// AuthController exposes the authentication flows as a JSON API under
// /auth. Session material travels as two HttpOnly cookies whose max-ages
// match the token TTLs.
type AuthController struct {
	Auth   *Authenticator
	Logger Logger
}

// NewAuthController builds a controller around the auth core.
func NewAuthController(auth *Authenticator, logger Logger) *AuthController {
	if logger == nil {
		logger = defLogger{}
	}
	return &AuthController{Auth: auth, Logger: logger}
}

// RegisterRoutes mounts the auth endpoints on the app.
func (a *AuthController) RegisterRoutes(app *fiber.App) {
	grp := app.Group("/auth")
	grp.Post("/signup", a.SignUp)
	grp.Post("/verify", a.Verify)
	grp.Post("/login", a.Login)
	grp.Post("/logout", a.Logout)
	grp.Post("/refresh", a.Refresh)
	grp.Post("/delete-account", a.DeleteAccount)
}

// NewServer builds a fiber app with the boundary error handling and the
// auth routes mounted. Unmatched routes get a JSON 404.
func NewServer(controller *AuthController, logger Logger) *fiber.App {
	if logger == nil {
		logger = defLogger{}
	}

	app := fiber.New(fiber.Config{
		ErrorHandler:          newErrorHandler(logger),
		DisableStartupMessage: true,
	})

	controller.RegisterRoutes(app)

	app.Use(func(c *fiber.Ctx) error {
		return goerrors.New("Not found", goerrors.CategoryNotFound).
			WithCode(goerrors.CodeNotFound)
	})

	return app
}

// newErrorHandler maps the typed error taxonomy to responses. Rich
// errors surface their status class and message; anything untyped is a
// generic internal failure with the detail kept in the log.
func newErrorHandler(logger Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			code := richErr.Code
			if code < fiber.StatusBadRequest {
				code = fiber.StatusInternalServerError
			}
			logger.Info("request error %d: %s", code, richErr.Message)
			return c.Status(code).JSON(fiber.Map{"message": richErr.Message})
		}

		var fiberErr *fiber.Error
		if goerrors.As(err, &fiberErr) {
			return c.Status(fiberErr.Code).JSON(fiber.Map{"message": fiberErr.Message})
		}

		logger.Error("request error 500: %v", err)
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"message": "Internal server error"})
	}
}

// SignUp handles POST /auth/signup.
func (a *AuthController) SignUp(c *fiber.Ctx) error {
	body, err := parseBody(c)
	if err != nil {
		return err
	}
	if err := RequireExact(body, "email", "password"); err != nil {
		return err
	}

	if err := a.Auth.SignUp(c.UserContext(), body["email"], body["password"]); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"message": "Signup success"})
}

// Verify handles POST /auth/verify.
func (a *AuthController) Verify(c *fiber.Ctx) error {
	body, err := parseBody(c)
	if err != nil {
		return err
	}
	if err := RequireExact(body, "email", "token"); err != nil {
		return err
	}

	if err := a.Auth.VerifyEmail(c.UserContext(), body["email"], body["token"]); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"message": "User verified"})
}

// Login handles POST /auth/login. On success it sets both session
// cookies with max-ages matching the token TTLs.
func (a *AuthController) Login(c *fiber.Ctx) error {
	body, err := parseBody(c)
	if err != nil {
		return err
	}
	if err := RequireExact(body, "email", "password"); err != nil {
		return err
	}

	pair, err := a.Auth.Login(c.UserContext(), body["email"], body["password"])
	if err != nil {
		return err
	}

	setTokenCookie(c, CookieAccessToken, pair.AccessToken, pair.AccessTTL)
	setTokenCookie(c, CookieRefreshToken, pair.RefreshToken, pair.RefreshTTL)

	return c.JSON(fiber.Map{"message": "You are logged in"})
}

// Logout handles POST /auth/logout. The client-held tokens are cleared
// before the stored refresh token, matching the documented order of the
// flow.
func (a *AuthController) Logout(c *fiber.Ctx) error {
	refresh := c.Cookies(CookieRefreshToken)
	if refresh == "" {
		return newValidationError("refresh_token is required")
	}

	clearTokenCookie(c, CookieAccessToken)
	clearTokenCookie(c, CookieRefreshToken)

	if err := a.Auth.Logout(c.UserContext(), refresh); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"message": "Logout success"})
}

// Refresh handles POST /auth/refresh and sets a fresh access cookie.
func (a *AuthController) Refresh(c *fiber.Ctx) error {
	refresh := c.Cookies(CookieRefreshToken)
	if refresh == "" {
		return newValidationError("refresh_token is required")
	}

	access, ttl, err := a.Auth.Refresh(c.UserContext(), refresh)
	if err != nil {
		return err
	}

	setTokenCookie(c, CookieAccessToken, access, ttl)

	return c.JSON(fiber.Map{"message": "Refresh success"})
}

// DeleteAccount handles POST /auth/delete-account. Both session cookies
// are required and cleared on success.
func (a *AuthController) DeleteAccount(c *fiber.Ctx) error {
	refresh := c.Cookies(CookieRefreshToken)
	access := c.Cookies(CookieAccessToken)
	if refresh == "" {
		return newValidationError("refresh_token is required")
	}
	if access == "" {
		return newValidationError("auth_token is required")
	}

	if err := a.Auth.DeleteAccount(c.UserContext(), refresh, access); err != nil {
		return err
	}

	clearTokenCookie(c, CookieAccessToken)
	clearTokenCookie(c, CookieRefreshToken)

	return c.JSON(fiber.Map{"message": "Delete success"})
}

// parseBody decodes the JSON body into a flat map so the exact-match
// parameter contract can see unexpected keys.
func parseBody(c *fiber.Ctx) (map[string]string, error) {
	body := map[string]string{}
	if err := c.BodyParser(&body); err != nil {
		return nil, newValidationError("invalid request body")
	}
	return body, nil
}

func setTokenCookie(c *fiber.Ctx, name, val string, ttl time.Duration) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    val,
		Expires:  time.Now().Add(ttl),
		MaxAge:   int(ttl.Seconds()),
		HTTPOnly: true,
		Secure:   true,
		SameSite: "Lax",
	})
}

func clearTokenCookie(c *fiber.Ctx, name string) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour * (24 * 365)),
		MaxAge:   -1,
		HTTPOnly: true,
		Secure:   true,
		SameSite: "Lax",
	})
}
