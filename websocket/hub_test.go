package websocket

import (
	"encoding/json"
	"testing"
	"time"
)

func newTestClient(h *Hub, userID, characterID uint, name string) *Client {
	return &Client{
		hub:           h,
		send:          make(chan []byte, 256),
		authenticated: true,
		userID:        userID,
		characterID:   characterID,
		characterName: name,
		rooms:         make(map[uint]bool),
	}
}

func drainFrames(t *testing.T, c *Client) []Message {
	t.Helper()
	var frames []Message
	for {
		select {
		case raw := <-c.send:
			var msg Message
			if err := json.Unmarshal(raw, &msg); err != nil {
				t.Fatalf("invalid frame %s: %v", raw, err)
			}
			frames = append(frames, msg)
		default:
			return frames
		}
	}
}

func TestHub_BroadcastReachesAllMembers(t *testing.T) {
	h := NewHub()

	clients := []*Client{
		newTestClient(h, 1, 10, "Albus Brumbál"),
		newTestClient(h, 2, 11, "Minerva McGonagallová"),
		newTestClient(h, 3, 12, "Severus Snape"),
	}
	for _, c := range clients {
		c.joinRoom(7)
	}

	frame := mustFrame(FrameNewMessage, map[string]string{"content": "Ahoj"})
	h.broadcastToRoom(7, frame)

	for i, c := range clients {
		frames := drainFrames(t, c)
		var got int
		for _, f := range frames {
			if f.Type == FrameNewMessage {
				got++
			}
		}
		if got != 1 {
			t.Errorf("client %d received %d new_message frames, want 1", i, got)
		}
	}
}

func TestHub_BroadcastExceptSkipsSender(t *testing.T) {
	h := NewHub()

	sender := newTestClient(h, 1, 10, "Albus Brumbál")
	other := newTestClient(h, 2, 11, "Minerva McGonagallová")
	sender.joinRoom(7)
	other.joinRoom(7)
	drainFrames(t, sender)
	drainFrames(t, other)

	h.broadcastToRoomExcept(7, mustFrame(FramePresenceUpdate, PresencePayload{RoomID: 7}), sender)

	if frames := drainFrames(t, sender); len(frames) != 0 {
		t.Errorf("excluded client received %d frames, want 0", len(frames))
	}
	if frames := drainFrames(t, other); len(frames) != 1 {
		t.Errorf("other client received %d frames, want 1", len(frames))
	}
}

func TestHub_LeaveRoomBroadcastsPresence(t *testing.T) {
	h := NewHub()

	leaving := newTestClient(h, 1, 10, "Albus Brumbál")
	staying := newTestClient(h, 2, 11, "Minerva McGonagallová")
	leaving.joinRoom(7)
	staying.joinRoom(7)
	drainFrames(t, staying)

	leaving.leaveRoom(7)

	members := h.presence.ListMembers(7)
	if len(members) != 1 || members[0].CharacterID != 11 {
		t.Errorf("presence after leave = %v, want only character 11", members)
	}

	frames := drainFrames(t, staying)
	if len(frames) != 1 || frames[0].Type != FramePresenceUpdate {
		t.Fatalf("staying client frames = %v, want one presence_update", frames)
	}
}

func TestHub_SecondConnectionKeepsPresence(t *testing.T) {
	h := NewHub()

	// Same character from two tabs.
	tab1 := newTestClient(h, 1, 10, "Albus Brumbál")
	tab2 := newTestClient(h, 1, 10, "Albus Brumbál")
	tab1.joinRoom(7)
	tab2.joinRoom(7)

	tab1.leaveRoom(7)

	members := h.presence.ListMembers(7)
	if len(members) != 1 {
		t.Errorf("presence after closing one of two tabs = %v, want character still present", members)
	}
}

func TestHub_UnregisterCleansUpAllRooms(t *testing.T) {
	h := NewHub()
	go h.Run()

	dropped := newTestClient(h, 1, 10, "Albus Brumbál")
	witness := newTestClient(h, 2, 11, "Minerva McGonagallová")

	h.register <- dropped
	h.register <- witness
	time.Sleep(10 * time.Millisecond)

	dropped.joinRoom(7)
	dropped.joinRoom(8)
	witness.joinRoom(7)
	drainFrames(t, witness)

	h.unregister <- dropped
	time.Sleep(10 * time.Millisecond)

	if members := h.presence.ListMembers(7); len(members) != 1 {
		t.Errorf("room 7 presence after disconnect = %v, want 1 member", members)
	}
	if members := h.presence.ListMembers(8); len(members) != 0 {
		t.Errorf("room 8 presence after disconnect = %v, want empty", members)
	}

	frames := drainFrames(t, witness)
	var updates int
	for _, f := range frames {
		if f.Type == FramePresenceUpdate {
			updates++
		}
	}
	if updates != 1 {
		t.Errorf("witness received %d presence_update frames, want 1", updates)
	}
}

func TestHub_SlowClientDropped(t *testing.T) {
	h := NewHub()

	slow := newTestClient(h, 1, 10, "Albus Brumbál")
	slow.send = make(chan []byte) // unbuffered, nobody reading
	h.clients[slow] = true
	slow.joinRoom(7)

	h.broadcastToRoom(7, mustFrame(FrameNewMessage, map[string]string{"content": "x"}))

	h.roomsMux.Lock()
	_, inRoom := h.rooms[7][slow]
	_, registered := h.clients[slow]
	h.roomsMux.Unlock()
	if inRoom || registered {
		t.Error("slow client still tracked after failed send")
	}
}

func TestHub_SlowClientDroppedFromAllRooms(t *testing.T) {
	h := NewHub()

	slow := newTestClient(h, 1, 10, "Albus Brumbál")
	slow.send = make(chan []byte) // unbuffered, nobody reading
	h.clients[slow] = true
	slow.joinRoom(7)
	slow.joinRoom(8)

	witness := newTestClient(h, 2, 11, "Minerva McGonagallová")
	witness.joinRoom(7)
	drainFrames(t, witness)

	h.broadcastToRoom(7, mustFrame(FrameNewMessage, map[string]string{"content": "x"}))
	// The second room must not hold a stale entry pointing at the closed
	// channel.
	h.broadcastToRoom(8, mustFrame(FrameNewMessage, map[string]string{"content": "y"}))

	h.roomsMux.Lock()
	_, in7 := h.rooms[7][slow]
	_, in8 := h.rooms[8][slow]
	_, registered := h.clients[slow]
	h.roomsMux.Unlock()
	if in7 || in8 || registered {
		t.Error("slow client still tracked after failed send")
	}

	if members := h.presence.ListMembers(7); len(members) != 1 || members[0].CharacterID != 11 {
		t.Errorf("room 7 presence after drop = %v, want only character 11", members)
	}
	if members := h.presence.ListMembers(8); len(members) != 0 {
		t.Errorf("room 8 presence after drop = %v, want empty", members)
	}

	frames := drainFrames(t, witness)
	var updates int
	for _, f := range frames {
		if f.Type == FramePresenceUpdate {
			updates++
		}
	}
	if updates == 0 {
		t.Error("witness got no presence_update after slow client was dropped")
	}
}

func TestHub_UnregisterAfterSlowDrop(t *testing.T) {
	h := NewHub()
	go h.Run()

	slow := newTestClient(h, 1, 10, "Albus Brumbál")
	slow.send = make(chan []byte)
	h.register <- slow
	time.Sleep(10 * time.Millisecond)
	slow.joinRoom(7)

	h.broadcastToRoom(7, mustFrame(FrameNewMessage, map[string]string{"content": "x"}))

	// The read pump still unregisters once the connection dies; the send
	// channel must not be closed a second time.
	h.unregister <- slow
	time.Sleep(10 * time.Millisecond)

	if members := h.presence.ListMembers(7); len(members) != 0 {
		t.Errorf("presence after drop and disconnect = %v, want empty", members)
	}
}
