package bot

import (
	"sync"

	"github.com/example/flashbot/pkg/models"
)

// practiceSession tracks one chat's walk through its due-card batch
type practiceSession struct {
	Cards    []models.Card
	Index    int
	Revealed bool
	Reviewed int
}

// current returns the card the session is showing, or false when exhausted
func (s *practiceSession) current() (models.Card, bool) {
	if s.Index >= len(s.Cards) {
		return models.Card{}, false
	}
	return s.Cards[s.Index], true
}

// sessionRegistry owns the active practice sessions, keyed by chat id.
// It is an explicit registry passed by handle, not ambient package state.
type sessionRegistry struct {
	mu     sync.Mutex
	byChat map[int64]*practiceSession
}

func newSessionRegistry() *sessionRegistry {
	return &sessionRegistry{byChat: make(map[int64]*practiceSession)}
}

func (r *sessionRegistry) get(chatID int64) (*practiceSession, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.byChat[chatID]
	return s, ok
}

func (r *sessionRegistry) put(chatID int64, s *practiceSession) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byChat[chatID] = s
}

func (r *sessionRegistry) remove(chatID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byChat, chatID)
}
