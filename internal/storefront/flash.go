package storefront

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"time"
)

// FlashCookie carries notifications across a POST/redirect/GET cycle.
const FlashCookie = "sf_flash"

// Flash is the redirect-surviving part of a Session.
type Flash struct {
	Toasts  []string `json:"t,omitempty"`
	Alerts  []string `json:"a,omitempty"`
	OpenURL string   `json:"o,omitempty"`
}

func (f Flash) Empty() bool {
	return len(f.Toasts) == 0 && len(f.Alerts) == 0 && f.OpenURL == ""
}

// WriteFlash stores f for the next request. Empty flashes write nothing.
func WriteFlash(w http.ResponseWriter, f Flash, secure bool) {
	if f.Empty() {
		return
	}
	payload, err := json.Marshal(f)
	if err != nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     FlashCookie,
		Value:    base64.RawURLEncoding.EncodeToString(payload),
		Path:     "/",
		MaxAge:   60,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ReadFlash consumes the flash cookie, expiring it on the response.
func ReadFlash(w http.ResponseWriter, r *http.Request) Flash {
	c, err := r.Cookie(FlashCookie)
	if err != nil || c.Value == "" {
		return Flash{}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     FlashCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
	})

	raw, err := base64.RawURLEncoding.DecodeString(c.Value)
	if err != nil {
		return Flash{}
	}
	var f Flash
	if err := json.Unmarshal(raw, &f); err != nil {
		return Flash{}
	}
	return f
}
