package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/venue-booking/internal/auth"
	"github.com/BruksfildServices01/venue-booking/internal/httperr"
	"github.com/BruksfildServices01/venue-booking/internal/httpresp"
	"github.com/BruksfildServices01/venue-booking/internal/models"
	"github.com/BruksfildServices01/venue-booking/internal/validators"
)

type AuthHandler struct {
	db     *gorm.DB
	issuer *auth.TokenIssuer

	emailDomainOK func(email string) bool
}

func NewAuthHandler(db *gorm.DB, issuer *auth.TokenIssuer) *AuthHandler {
	return &AuthHandler{
		db:            db,
		issuer:        issuer,
		emailDomainOK: validators.IsEmailDomainValid,
	}
}

// --------- Requests ---------

type RegisterRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Phone    string `json:"phone" binding:"omitempty,max=20"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type userView struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	Role  string `json:"role"`
}

func viewOf(u *models.User) userView {
	return userView{ID: u.ID, Name: u.Name, Email: u.Email, Phone: u.Phone, Role: u.Role}
}

// --------- Handlers ---------

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !h.emailDomainOK(email) {
		httperr.BadRequest(c, "invalid_email_domain", "the email domain does not look valid")
		return
	}

	var count int64
	if err := h.db.WithContext(c.Request.Context()).
		Model(&models.User{}).
		Where("email = ?", email).
		Count(&count).Error; err != nil {
		httperr.Respond(c, err)
		return
	}
	if count > 0 {
		httperr.Respond(c, httperr.Conflict("email_already_exists", "an account with this email already exists"))
		return
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	user := models.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: hashed,
		Phone:        strings.TrimSpace(req.Phone),
		Role:         models.RoleCustomer,
		IsActive:     true,
	}
	if err := h.db.WithContext(c.Request.Context()).Create(&user).Error; err != nil {
		if httperr.IsUniqueViolation(err) {
			httperr.Respond(c, httperr.Conflict("email_already_exists", "an account with this email already exists"))
			return
		}
		httperr.Respond(c, err)
		return
	}

	h.respondWithToken(c, http.StatusCreated, &user)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var user models.User
	err := h.db.WithContext(c.Request.Context()).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		httperr.UnauthorizedResponse(c, "invalid_credentials", "invalid email or password")
		return
	}
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		httperr.UnauthorizedResponse(c, "invalid_credentials", "invalid email or password")
		return
	}
	if !user.IsActive {
		httperr.Respond(c, httperr.Forbidden("account is disabled"))
		return
	}

	h.respondWithToken(c, http.StatusOK, &user)
}

func (h *AuthHandler) respondWithToken(c *gin.Context, status int, user *models.User) {
	token, exp, err := h.issuer.Issue(user.ID, user.Role)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(status, httpresp.Envelope{
		Success: true,
		Data: gin.H{
			"user":      viewOf(user),
			"token":     token,
			"expiresAt": exp.Format(time.RFC3339),
		},
	})
}
