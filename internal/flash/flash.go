// Package flash carries one-shot notices across a redirect using a
// cookie-backed session, in the style of connect-flash.
package flash

import (
	"encoding/gob"
	"log"
	"net/http"

	"github.com/gorilla/sessions"
)

const sessionName = "sessionId"

// Message is a single notice with its display category.
type Message struct {
	Category string
	Text     string
}

func init() {
	gob.Register(Message{})
}

// Store adds and drains flash messages for a request.
type Store struct {
	sessions *sessions.CookieStore
}

func New(secret string) *Store {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
	}
	return &Store{sessions: store}
}

// Add queues a notice to be shown on the next rendered page.
func (s *Store) Add(w http.ResponseWriter, r *http.Request, category, text string) {
	session, _ := s.sessions.Get(r, sessionName)
	session.AddFlash(Message{Category: category, Text: text})
	if err := session.Save(r, w); err != nil {
		log.Printf("flash: failed to save session: %v", err)
	}
}

// Pop returns and clears all queued notices.
func (s *Store) Pop(w http.ResponseWriter, r *http.Request) []Message {
	session, _ := s.sessions.Get(r, sessionName)
	raw := session.Flashes()
	if len(raw) == 0 {
		return nil
	}
	if err := session.Save(r, w); err != nil {
		log.Printf("flash: failed to save session: %v", err)
	}
	messages := make([]Message, 0, len(raw))
	for _, v := range raw {
		if m, ok := v.(Message); ok {
			messages = append(messages, m)
		}
	}
	return messages
}
