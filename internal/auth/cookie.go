package auth

import (
	"net/http"
	"time"
)

const SessionCookieName = "admin_session"

// Cookies writes and reads the session cookie. The browser never sees the
// token in a response body.
type Cookies struct {
	Name   string
	Secure bool
	MaxAge time.Duration
}

func NewCookies(secure bool, maxAge time.Duration) Cookies {
	return Cookies{
		Name:   SessionCookieName,
		Secure: secure,
		MaxAge: maxAge,
	}
}

func (c Cookies) Set(w http.ResponseWriter, token string) {
	http.SetCookie(w, c.cookie(token, int(c.MaxAge.Seconds())))
}

// Clear expires the cookie on the client, keeping the same attributes.
func (c Cookies) Clear(w http.ResponseWriter) {
	http.SetCookie(w, c.cookie("", -1))
}

func (c Cookies) Token(r *http.Request) string {
	cookie, err := r.Cookie(c.Name)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func (c Cookies) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     c.Name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}
