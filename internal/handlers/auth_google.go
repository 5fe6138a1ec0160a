package handlers

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"gorm.io/gorm"

	"github.com/Windi-Fikriyansyah/gigboard/internal/models"
	"github.com/Windi-Fikriyansyah/gigboard/internal/services/identity"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

type GoogleOAuthHandler struct {
	Auth            *AuthHandler
	Identity        *identity.Service
	GoogleClientID  string
	GoogleSecret    string
	GoogleRedirect  string
	FrontendBaseURL string
}

func (h *GoogleOAuthHandler) oauthCfg() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     h.GoogleClientID,
		ClientSecret: h.GoogleSecret,
		RedirectURL:  h.GoogleRedirect,
		Endpoint:     google.Endpoint,
		Scopes:       []string{"openid", "email", "profile"},
	}
}

func randomState(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}

func (h *GoogleOAuthHandler) tempCookie(c *fiber.Ctx, name, value string, maxAge int) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HTTPOnly: true,
		Secure:   h.Auth.CookieSecure,
		SameSite: "Lax",
		MaxAge:   maxAge,
	})
}

func (h *GoogleOAuthHandler) GoogleStart(c *fiber.Ctx) error {
	if h.GoogleClientID == "" {
		return fiber.NewError(fiber.StatusNotFound, "google sign-in is not configured")
	}
	next := c.Query("next", "/")
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		next = "/"
	}
	st := randomState(32)

	h.tempCookie(c, "oauth_state", st, 10*60)
	h.tempCookie(c, "oauth_next", next, 10*60)

	return c.Redirect(h.oauthCfg().AuthCodeURL(st, oauth2.AccessTypeOffline), http.StatusTemporaryRedirect)
}

type googleUserInfo struct {
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
}

func (h *GoogleOAuthHandler) GoogleCallback(c *fiber.Ctx) error {
	code := c.Query("code")
	state := c.Query("state")
	if code == "" || state == "" {
		return fiber.NewError(fiber.StatusBadRequest, "missing code or state")
	}
	if st := c.Cookies("oauth_state"); st == "" || st != state {
		return fiber.NewError(fiber.StatusBadRequest, "invalid state")
	}
	next := c.Cookies("oauth_next")
	if !strings.HasPrefix(next, "/") {
		next = "/"
	}

	ctx := c.UserContext()
	tok, err := h.oauthCfg().Exchange(ctx, code)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "failed to exchange code")
	}
	resp, err := h.oauthCfg().Client(ctx, tok).Get(googleUserInfoURL)
	if err != nil {
		return fiber.NewError(fiber.StatusBadGateway, "failed to fetch userinfo")
	}
	defer resp.Body.Close()

	var gu googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&gu); err != nil {
		return fiber.NewError(fiber.StatusBadGateway, "failed to decode userinfo")
	}
	email := strings.ToLower(strings.TrimSpace(gu.Email))
	name := strings.TrimSpace(gu.Name)
	if email == "" || !gu.VerifiedEmail {
		return fiber.NewError(fiber.StatusBadRequest, "google account has no verified email")
	}
	if name == "" {
		name = strings.Split(email, "@")[0]
	}

	db := h.Auth.DB.WithContext(ctx)
	var u models.User
	err = db.Where("email = ?", email).First(&u).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		// no password: these accounts can only sign in through Google
		u = models.User{Name: name, Email: email, IsActive: true}
		if err := db.Create(&u).Error; err != nil {
			h.Auth.Logger.Error("create google account", zap.Error(err))
			return fiber.NewError(fiber.StatusServiceUnavailable, "could not create account")
		}
	case err != nil:
		return fiber.NewError(fiber.StatusServiceUnavailable, "storage is unavailable")
	}

	if !u.IsActive {
		return c.Redirect(h.FrontendBaseURL+"/auth?err="+url.QueryEscape("account is disabled"), http.StatusTemporaryRedirect)
	}
	if err := h.Auth.issue(c, &u); err != nil {
		return err
	}
	h.tempCookie(c, "oauth_state", "", -1)
	h.tempCookie(c, "oauth_next", "", -1)

	// accounts without a role go through role selection first
	role, err := h.Identity.ResolveRole(ctx, u.ID)
	if err == nil && !role.Valid() {
		return c.Redirect(h.FrontendBaseURL+"/choose-role?next="+url.QueryEscape(next), http.StatusTemporaryRedirect)
	}
	return c.Redirect(h.FrontendBaseURL+next, http.StatusTemporaryRedirect)
}
