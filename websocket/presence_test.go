package websocket

import (
	"testing"
)

func TestPresence_JoinAndList(t *testing.T) {
	p := NewPresence()

	p.Join(1, Member{CharacterID: 10, Name: "Albus Brumbál"})
	p.Join(1, Member{CharacterID: 11, Name: "Minerva McGonagallová"})

	members := p.ListMembers(1)
	if len(members) != 2 {
		t.Fatalf("ListMembers() = %d members, want 2", len(members))
	}
	if members[0].CharacterID != 10 || members[1].CharacterID != 11 {
		t.Errorf("ListMembers() order = %v, want join order", members)
	}
}

func TestPresence_JoinIdempotent(t *testing.T) {
	p := NewPresence()

	p.Join(1, Member{CharacterID: 10, Name: "Albus Brumbál"})
	p.Join(1, Member{CharacterID: 10, Name: "Albus Brumbál"})

	if got := len(p.ListMembers(1)); got != 1 {
		t.Errorf("ListMembers() after double join = %d members, want 1", got)
	}
}

func TestPresence_Leave(t *testing.T) {
	p := NewPresence()

	p.Join(1, Member{CharacterID: 10, Name: "Albus Brumbál"})
	p.Join(1, Member{CharacterID: 11, Name: "Minerva McGonagallová"})
	p.Leave(1, 10)

	members := p.ListMembers(1)
	if len(members) != 1 {
		t.Fatalf("ListMembers() after leave = %d members, want 1", len(members))
	}
	if members[0].CharacterID != 11 {
		t.Errorf("remaining member = %d, want 11", members[0].CharacterID)
	}
}

func TestPresence_LeaveUnknownCharacter(t *testing.T) {
	p := NewPresence()

	p.Join(1, Member{CharacterID: 10, Name: "Albus Brumbál"})
	p.Leave(1, 99)
	p.Leave(2, 10)

	if got := len(p.ListMembers(1)); got != 1 {
		t.Errorf("ListMembers() = %d members, want 1", got)
	}
}

func TestPresence_EmptyRoomDropped(t *testing.T) {
	p := NewPresence()

	p.Join(1, Member{CharacterID: 10, Name: "Albus Brumbál"})
	p.Leave(1, 10)

	if got := len(p.ListMembers(1)); got != 0 {
		t.Errorf("ListMembers() after last leave = %d members, want 0", got)
	}
	if _, ok := p.rooms[1]; ok {
		t.Error("empty room not removed from map")
	}
}

func TestPresence_ListReturnsCopy(t *testing.T) {
	p := NewPresence()

	p.Join(1, Member{CharacterID: 10, Name: "Albus Brumbál"})
	members := p.ListMembers(1)
	members[0].Name = "changed"

	if p.ListMembers(1)[0].Name != "Albus Brumbál" {
		t.Error("ListMembers() exposed internal state")
	}
}
