package session

import (
	"errors"
	"sync"
)

// ErrLoginRequired is returned when a guarded action is attempted
// without a session.
var ErrLoginRequired = errors.New("debes iniciar sesión para continuar")

// Guard gates protected actions on session state. It holds no cache: the
// store is consulted on every check. When access is denied the requested
// location is recorded so a later login can send the user back.
type Guard struct {
	store *Store

	mu       sync.Mutex
	returnTo string
}

// NewGuard creates a guard over the given store
func NewGuard(store *Store) *Guard {
	return &Guard{store: store}
}

// Check permits the action when a session exists. Otherwise it records
// target and reports that login is required.
func (g *Guard) Check(target string) error {
	if g.store.IsAuthenticated() {
		return nil
	}

	g.mu.Lock()
	g.returnTo = target
	g.mu.Unlock()
	return ErrLoginRequired
}

// ConsumeReturnTo pops the location recorded by the last denied check
func (g *Guard) ConsumeReturnTo() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	target := g.returnTo
	g.returnTo = ""
	return target
}
