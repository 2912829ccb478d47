package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const tokenTTL = 24 * time.Hour

// Claims carried by API tokens.
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginUser struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type LoginResponse struct {
	Token string    `json:"token"`
	User  LoginUser `json:"user"`
}

// AuthHandler signs in the single configured administrator.
type AuthHandler struct {
	secret       []byte
	adminEmail   string
	passwordHash []byte
	now          func() time.Time
}

func NewAuthHandler(secret, adminEmail, passwordHash string) *AuthHandler {
	return &AuthHandler{
		secret:       []byte(secret),
		adminEmail:   adminEmail,
		passwordHash: []byte(passwordHash),
		now:          time.Now,
	}
}

// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Please enter email and password."})
		return
	}

	if len(h.passwordHash) == 0 {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "login is not configured"})
		return
	}
	if !strings.EqualFold(strings.TrimSpace(req.Email), h.adminEmail) ||
		bcrypt.CompareHashAndPassword(h.passwordHash, []byte(req.Password)) != nil {
		zap.S().Infow("login_rejected", "email", req.Email, "ip", c.ClientIP())
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid email or password"})
		return
	}

	token, err := h.issue(h.adminEmail, "admin")
	if err != nil {
		zap.S().Errorw("token_sign_failed", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "could not sign in"})
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		Token: token,
		User:  LoginUser{ID: "admin", Name: "Administrator", Email: h.adminEmail, Role: "admin"},
	})
}

func (h *AuthHandler) issue(email, role string) (string, error) {
	now := h.now()
	claims := Claims{
		Email: email,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			Issuer:    "inventory-catalog",
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(h.secret)
}

func (h *AuthHandler) verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return h.secret, nil
	}, jwt.WithTimeFunc(h.now))
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

// RequireToken rejects requests without a valid bearer token.
func (h *AuthHandler) RequireToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
			return
		}
		claims, err := h.verify(parts[1])
		if err != nil {
			zap.S().Debugw("token_rejected", "error", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
			return
		}
		c.Set("userEmail", claims.Email)
		c.Set("userRole", claims.Role)
		c.Next()
	}
}
