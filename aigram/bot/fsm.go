package bot

import "sync"

// conversation state for a chat awaiting a follow-up text input
//
// every multi-step flow is dispatched on stored state rather than by
// registering an implicit "next handler"
type state int

const (
	stateIdle state = iota

	// any user, after /premium
	stateAwaitingPromoCode

	// admin only
	stateAwaitingBroadcast
	stateAwaitingChannelAdd
	stateAwaitingChannelRemove
	stateAwaitingPremiumGrant
	stateAwaitingPremiumRevoke
)

// in-memory per-chat conversation state
type sessionStore struct {
	mu     sync.Mutex
	states map[int64]state
}

func newSessionStore() *sessionStore {
	return &sessionStore{states: make(map[int64]state)}
}

func (s *sessionStore) Get(chatID int64) state {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.states[chatID]
}

func (s *sessionStore) Set(chatID int64, st state) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if st == stateIdle {
		delete(s.states, chatID)
		return
	}

	s.states[chatID] = st
}

func (s *sessionStore) Clear(chatID int64) {
	s.Set(chatID, stateIdle)
}

func (st state) adminOnly() bool {
	switch st {
	case stateAwaitingBroadcast,
		stateAwaitingChannelAdd,
		stateAwaitingChannelRemove,
		stateAwaitingPremiumGrant,
		stateAwaitingPremiumRevoke:
		return true
	default:
		return false
	}
}
