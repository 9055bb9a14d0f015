package handlers

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	adminCookieName = "admin_session"
	adminSubject    = "admin"
)

var ErrInvalidToken = errors.New("invalid admin token")

// AdminAuth checks the admin password and issues HS256 session tokens.
type AdminAuth struct {
	password string
	secret   []byte
	ttl      time.Duration
	now      func() time.Time
}

// NewAdminAuth falls back to "admin123" when password is empty and to a random
// per-process secret when secret is empty (sessions then die with the process).
func NewAdminAuth(password, secret string, ttl time.Duration) *AdminAuth {
	if password == "" {
		password = "admin123" // change in production: NATACION_ADMIN_PASSWORD=...
	}
	key := []byte(secret)
	if len(key) == 0 {
		key = make([]byte, 32)
		_, _ = rand.Read(key)
		key = []byte(hex.EncodeToString(key))
	}
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &AdminAuth{password: password, secret: key, ttl: ttl, now: time.Now}
}

func (a *AdminAuth) CheckPassword(pw string) bool {
	return subtle.ConstantTimeCompare([]byte(pw), []byte(a.password)) == 1
}

func (a *AdminAuth) GenerateToken() (string, time.Time, error) {
	now := a.now()
	exp := now.Add(a.ttl)
	claims := jwt.RegisteredClaims{
		Subject:   adminSubject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, exp, nil
}

func (a *AdminAuth) ValidateToken(tokenString string) error {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return a.secret, nil
	}, jwt.WithTimeFunc(a.now), jwt.WithSubject(adminSubject))
	if err != nil || !token.Valid {
		return ErrInvalidToken
	}
	return nil
}

// RequireAdmin is middleware: accepts the session cookie or a Bearer token.
func (a *AdminAuth) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tok := ""
		if c, err := r.Cookie(adminCookieName); err == nil {
			tok = c.Value
		} else if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
			tok = strings.TrimPrefix(h, "Bearer ")
		}
		if tok == "" || a.ValidateToken(tok) != nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "admin login required"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

type loginRequest struct {
	Password string `json:"password" validate:"required"`
}

// POST /admin/login
func (a *API) AdminLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decode(r, &req); err != nil {
		a.writeError(w, r, err)
		return
	}
	if !a.Auth.CheckPassword(req.Password) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid password"})
		return
	}
	tok, exp, err := a.Auth.GenerateToken()
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	setSessionCookie(w, tok, exp)
	writeJSON(w, http.StatusOK, map[string]any{"token": tok, "expires_at": exp})
}

// POST /admin/logout
func (a *API) AdminLogout(w http.ResponseWriter, r *http.Request) {
	clearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}
