package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/storefront-cart/api/responses"
	"github.com/angelmondragon/storefront-cart/pkg/config"
	pkgerrors "github.com/angelmondragon/storefront-cart/pkg/errors"
	"github.com/angelmondragon/storefront-cart/pkg/logger"
	"github.com/angelmondragon/storefront-cart/pkg/visitor"
)

// Visitor identifies the browser through a signed cookie. Requests without a
// valid cookie get a fresh visitor id and a new cookie.
func Visitor(cfg config.VisitorConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			now := time.Now()

			var visitorID string
			if c, err := r.Cookie(cfg.CookieName); err == nil && c.Value != "" {
				claims, parseErr := visitor.Parse(cfg, c.Value, now)
				if parseErr == nil {
					visitorID = claims.VisitorID.String()
				} else if logg != nil {
					logg.Debug(logg.WithField(ctx, "reason", parseErr.Error()), "visitor.cookie.rejected")
				}
			}

			if visitorID == "" {
				id := uuid.New()
				token, err := visitor.Mint(cfg, now, id)
				if err != nil {
					responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "issuing visitor identity"))
					return
				}
				http.SetCookie(w, &http.Cookie{
					Name:     cfg.CookieName,
					Value:    token,
					Path:     "/",
					Expires:  now.Add(cfg.TTL),
					MaxAge:   int(cfg.TTL.Seconds()),
					HttpOnly: true,
					Secure:   cfg.Secure,
					SameSite: http.SameSiteLaxMode,
				})
				visitorID = id.String()
			}

			ctx = WithVisitorID(ctx, visitorID)
			if logg != nil {
				ctx = logg.WithVisitorID(ctx, visitorID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
