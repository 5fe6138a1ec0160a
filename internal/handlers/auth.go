package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Windi-Fikriyansyah/gigboard/internal/middleware"
	"github.com/Windi-Fikriyansyah/gigboard/internal/models"
	"github.com/Windi-Fikriyansyah/gigboard/internal/services/identity"
	"github.com/Windi-Fikriyansyah/gigboard/internal/services/lifecycle"
	"github.com/Windi-Fikriyansyah/gigboard/internal/utils"
)

type AuthHandler struct {
	DB           *gorm.DB
	Identity     *identity.Service
	JWTSecret    string
	Expires      int
	CookieSecure bool
	Logger       *zap.Logger
}

type RegisterReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
	Role     string `json:"role"` // job_poster / job_seeker, optional
}

func userView(u *models.User, role models.Role) fiber.Map {
	var r interface{}
	if role.Valid() {
		r = role
	}
	return fiber.Map{
		"id":    u.ID,
		"name":  u.Name,
		"email": u.Email,
		"phone": u.Phone,
		"role":  r,
	}
}

func (h *AuthHandler) setSessionCookie(c *fiber.Ctx, token string, maxAge int) {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.CookieName,
		Value:    token,
		Path:     "/",
		HTTPOnly: true,
		Secure:   h.CookieSecure,
		SameSite: "Lax",
		MaxAge:   maxAge,
	})
}

func (h *AuthHandler) issue(c *fiber.Ctx, u *models.User) error {
	token, err := utils.SignJWT(h.JWTSecret, u.ID.String(), h.Expires)
	if err != nil {
		return err
	}
	h.setSessionCookie(c, token, h.Expires*60)
	return nil
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req RegisterReq
	if err := c.BodyParser(&req); err != nil {
		return invalidBody()
	}

	name := strings.TrimSpace(req.Name)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	phone := strings.TrimSpace(req.Phone)
	password := strings.TrimSpace(req.Password)
	role := models.Role(strings.TrimSpace(req.Role))

	errs := lifecycle.FieldErrors{}
	if name == "" {
		errs.Add("name", "name is required")
	}
	if email == "" {
		errs.Add("email", "email is required")
	} else if !strings.Contains(email, "@") {
		errs.Add("email", "email is not valid")
	}
	if password == "" {
		errs.Add("password", "password is required")
	} else if len(password) < 6 {
		errs.Add("password", "password must be at least 6 characters")
	}
	if phone != "" && len(phone) < 8 {
		errs.Add("phone", "phone number is not valid")
	}
	if role != models.RoleUnassigned && !role.Valid() {
		errs.Add("role", "role must be job_poster or job_seeker")
	}
	if len(errs) > 0 {
		return lifecycle.InvalidInput("validation error", errs)
	}

	pw, err := utils.HashPassword(password)
	if err != nil {
		return err
	}
	u := models.User{Name: name, Email: email, Password: pw, IsActive: true}
	if phone != "" {
		u.Phone = &phone
	}

	// account and role land together or not at all
	err = h.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&u).Error; err != nil {
			return err
		}
		if role.Valid() {
			return tx.Create(&models.UserRole{UserID: u.ID, Role: role}).Error
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(strings.ToLower(err.Error()), "unique") {
			dup := lifecycle.FieldErrors{}
			dup.Add("email", "email or phone is already registered")
			return lifecycle.InvalidInput("validation error", dup)
		}
		h.Logger.Error("register", zap.Error(err))
		return lifecycle.StorageUnavailable("storage is unavailable, try again", err)
	}

	if err := h.issue(c, &u); err != nil {
		return err
	}

	h.Logger.Info("account registered", zap.String("user_id", u.ID.String()), zap.String("role", string(role)))
	return ok(c, fiber.StatusCreated, "registered", fiber.Map{"user": userView(&u, role)})
}

type LoginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginReq
	if err := c.BodyParser(&req); err != nil {
		return invalidBody()
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	password := strings.TrimSpace(req.Password)

	errs := lifecycle.FieldErrors{}
	if email == "" {
		errs.Add("email", "email is required")
	}
	if password == "" {
		errs.Add("password", "password is required")
	}
	if len(errs) > 0 {
		return lifecycle.InvalidInput("validation error", errs)
	}

	var u models.User
	err := h.DB.WithContext(c.UserContext()).Where("email = ?", email).First(&u).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return lifecycle.StorageUnavailable("storage is unavailable, try again", err)
	}
	if err != nil || !utils.CheckPassword(u.Password, password) {
		return lifecycle.Unauthenticated("wrong email or password")
	}
	if !u.IsActive {
		return lifecycle.Forbidden("account is disabled")
	}

	role, err := h.Identity.ResolveRole(c.UserContext(), u.ID)
	if err != nil {
		return err
	}
	if err := h.issue(c, &u); err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, "signed in", fiber.Map{"user": userView(&u, role)})
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	h.setSessionCookie(c, "", -1)
	return c.JSON(fiber.Map{
		"success": true,
		"message": "signed out",
	})
}

// Me returns the signed-in account. role is null until one is chosen.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	sess := session(c)
	var u models.User
	if err := h.DB.WithContext(c.UserContext()).First(&u, "id = ?", sess.AccountID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return lifecycle.Unauthenticated("account not found")
		}
		return lifecycle.StorageUnavailable("storage is unavailable, try again", err)
	}
	return ok(c, fiber.StatusOK, "", userView(&u, sess.Role))
}

type chooseRoleReq struct {
	Role string `json:"role"`
}

func (h *AuthHandler) ChooseRole(c *fiber.Ctx) error {
	var req chooseRoleReq
	if err := c.BodyParser(&req); err != nil {
		return invalidBody()
	}
	sess := session(c)
	role := models.Role(strings.TrimSpace(req.Role))
	if err := h.Identity.AssignRole(c.UserContext(), sess.AccountID, role); err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, "role saved", fiber.Map{"role": role})
}
