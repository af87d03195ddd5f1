package handlers

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/kova98/redditsentiment.api/models"
)

const (
	sessionCookie = "session"
	sessionTTL    = 24 * time.Hour
)

var errNoSessionSecret = errors.New("SESSION_SECRET_KEY is not set")

// SessionHandler checks the single shared dashboard credential and issues a signed
// session cookie. The credential is also served to the frontend by GetConfig.
type SessionHandler struct {
	username string
	password string
	secret   []byte
	secure   bool
	now      func() time.Time
}

func NewSessionHandler(username, password, secret string, secure bool) *SessionHandler {
	return &SessionHandler{
		username: username,
		password: password,
		secret:   []byte(secret),
		secure:   secure,
		now:      time.Now,
	}
}

func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) Result {
	if len(h.secret) == 0 {
		return InternalError(errNoSessionSecret, "login: ")
	}

	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return BadRequest("Invalid request.")
	}

	userOk := subtle.ConstantTimeCompare([]byte(req.Username), []byte(h.username)) == 1
	passOk := subtle.ConstantTimeCompare([]byte(req.Password), []byte(h.password)) == 1
	if !userOk || !passOk {
		return Unauthorized("Invalid credentials")
	}

	now := h.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   req.Username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(sessionTTL)),
	})
	signed, err := token.SignedString(h.secret)
	if err != nil {
		return InternalError(err, "sign session: ")
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    signed,
		Path:     "/",
		Expires:  now.Add(sessionTTL),
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})

	return Success()
}

func (h *SessionHandler) GetConfig(w http.ResponseWriter, r *http.Request) Result {
	var res models.FrontendConfigResponse
	res.Auth.Username = h.username
	res.Auth.Password = h.password
	return Ok(res)
}

// Authenticate validates the session cookie and returns the session subject as Body.
func (h *SessionHandler) Authenticate(r *http.Request) Result {
	if len(h.secret) == 0 {
		return InternalError(errNoSessionSecret, "authenticate: ")
	}

	cookie, err := r.Cookie(sessionCookie)
	if err != nil || cookie.Value == "" {
		return Unauthorized("Missing session")
	}

	token, err := jwt.ParseWithClaims(cookie.Value, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		return h.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(h.now))
	if err != nil || !token.Valid {
		return Unauthorized("Invalid session")
	}

	subject, err := token.Claims.GetSubject()
	if err != nil || subject == "" {
		return Unauthorized("Invalid session")
	}

	return Ok(subject)
}
