package session

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// CookieName carries the signed session token.
const CookieName = "careportal_session"

// CookieCodec signs session ids into an HMAC JWT cookie and reads them back.
// The token proves the session id was issued by this server; the principal
// itself lives in the Store.
type CookieCodec struct {
	secret []byte
	ttl    time.Duration
	secure bool
}

// NewCookieCodec creates a codec. secure controls the cookie's Secure flag.
func NewCookieCodec(secret string, ttl time.Duration, secure bool) *CookieCodec {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &CookieCodec{secret: []byte(secret), ttl: ttl, secure: secure}
}

// Issue writes a signed session cookie onto the response.
func (c *CookieCodec) Issue(w http.ResponseWriter, sessionID string) error {
	if len(c.secret) == 0 {
		return errors.New("session: cookie secret not configured")
	}
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   sessionID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(c.ttl.Seconds()),
	})
	return nil
}

// Clear expires the session cookie.
func (c *CookieCodec) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

// Read extracts and verifies the session id from the request cookie.
// A missing, expired, or tampered cookie returns ok=false.
func (c *CookieCodec) Read(r *http.Request) (string, bool) {
	if len(c.secret) == 0 {
		return "", false
	}
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	claims := jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(cookie.Value, &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return c.secret, nil
	})
	if err != nil || !token.Valid || claims.Subject == "" {
		return "", false
	}
	return claims.Subject, true
}
