// Package storefront adapts the cart ports to server-rendered pages: a
// request-scoped Session plays badge, cart view, toast, dialog and link opener.
package storefront

import (
	"github.com/angelmondragon/storefront-cart/internal/cart"
)

// Confirmation answers carried by the clear form.
const (
	AnswerYes = "yes"
	AnswerNo  = "no"
)

// Session collects everything one request wants shown to the visitor.
type Session struct {
	Badge   int
	View    *cart.View
	Toasts  []string
	Alerts  []string
	Prompt  string
	OpenURL string

	answer string
}

// NewSession starts a request with the visitor's answer to a pending
// confirmation, if any.
func NewSession(answer string) *Session {
	return &Session{answer: answer}
}

func (s *Session) RenderBadge(count int) { s.Badge = count }

func (s *Session) RenderCart(view cart.View) { s.View = &view }

func (s *Session) Toast(message string) { s.Toasts = append(s.Toasts, message) }

func (s *Session) Alert(message string) { s.Alerts = append(s.Alerts, message) }

// Confirm answers from the submitted form. Without an answer the prompt is
// recorded for the page to ask, and the action is declined for now.
func (s *Session) Confirm(prompt string) bool {
	switch s.answer {
	case AnswerYes:
		return true
	case AnswerNo:
		return false
	}
	s.Prompt = prompt
	return false
}

func (s *Session) Open(url string) { s.OpenURL = url }

// Flash extracts the messages that must survive a redirect.
func (s *Session) Flash() Flash {
	return Flash{Toasts: s.Toasts, Alerts: s.Alerts, OpenURL: s.OpenURL}
}

// Absorb merges messages carried over from the previous request.
func (s *Session) Absorb(f Flash) {
	s.Toasts = append(f.Toasts, s.Toasts...)
	s.Alerts = append(f.Alerts, s.Alerts...)
	if s.OpenURL == "" {
		s.OpenURL = f.OpenURL
	}
}
