package websocket

import (
	"sync"
)

// Member is one character currently joined to a room.
type Member struct {
	CharacterID uint   `json:"character_id"`
	Name        string `json:"name"`
}

// Presence tracks which characters are joined to which room. It is purely
// in-memory and owned by the hub; a process restart empties it and clients
// re-join on reconnect. Members are kept in join order.
type Presence struct {
	mu    sync.RWMutex
	rooms map[uint][]Member
}

func NewPresence() *Presence {
	return &Presence{rooms: make(map[uint][]Member)}
}

// Join adds a character to a room. Joining twice with the same character is a
// no-op, so double joins (two tabs, rejoin after a glitch) never produce
// duplicate entries.
func (p *Presence) Join(roomID uint, member Member) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, m := range p.rooms[roomID] {
		if m.CharacterID == member.CharacterID {
			return
		}
	}
	p.rooms[roomID] = append(p.rooms[roomID], member)
}

// Leave removes a character from a room.
func (p *Presence) Leave(roomID, characterID uint) {
	p.mu.Lock()
	defer p.mu.Unlock()

	members := p.rooms[roomID]
	for i, m := range members {
		if m.CharacterID == characterID {
			p.rooms[roomID] = append(members[:i], members[i+1:]...)
			break
		}
	}
	if len(p.rooms[roomID]) == 0 {
		delete(p.rooms, roomID)
	}
}

// ListMembers returns the room's members in join order.
func (p *Presence) ListMembers(roomID uint) []Member {
	p.mu.RLock()
	defer p.mu.RUnlock()

	members := p.rooms[roomID]
	out := make([]Member, len(members))
	copy(out, members)
	return out
}
