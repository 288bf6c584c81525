package websocket

import (
	"sync"
)

// accessRegistry remembers which users have verified a protected room's
// password over HTTP. Like presence it is in-process state: a restart clears
// it and clients verify again before joining.
type accessRegistry struct {
	mu       sync.RWMutex
	verified map[uint]map[uint]bool // userID -> roomID set
}

func newAccessRegistry() *accessRegistry {
	return &accessRegistry{verified: make(map[uint]map[uint]bool)}
}

func (a *accessRegistry) grant(userID, roomID uint) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.verified[userID] == nil {
		a.verified[userID] = make(map[uint]bool)
	}
	a.verified[userID][roomID] = true
}

func (a *accessRegistry) allowed(userID, roomID uint) bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.verified[userID][roomID]
}

// MarkRoomVerified records a successful password verification for a user, so
// the gateway will accept a later join_room for that room.
func MarkRoomVerified(userID, roomID uint) {
	hub.access.grant(userID, roomID)
}
