package websocket

import (
	"fmt"
	"strings"
	"testing"
)

func requireErrorFrame(t *testing.T, c *Client) {
	t.Helper()
	frames := drainFrames(t, c)
	if len(frames) != 1 || frames[0].Type != FrameError {
		t.Fatalf("frames = %v, want exactly one error frame", frames)
	}
}

func TestHandleIncomingFrame_MalformedJSON(t *testing.T) {
	h := NewHub()
	c := newTestClient(h, 1, 10, "Albus Brumbál")

	HandleIncomingFrame(c, []byte("{not json"))

	requireErrorFrame(t, c)
}

func TestHandleIncomingFrame_UnauthenticatedJoinRejected(t *testing.T) {
	h := NewHub()
	c := newTestClient(h, 0, 0, "")
	c.authenticated = false

	HandleIncomingFrame(c, []byte(`{"type":"join_room","payload":{"room_id":7}}`))

	requireErrorFrame(t, c)
	if members := h.presence.ListMembers(7); len(members) != 0 {
		t.Errorf("presence after rejected join = %v, want empty", members)
	}
}

func TestHandleIncomingFrame_UnauthenticatedChatRejected(t *testing.T) {
	h := NewHub()
	c := newTestClient(h, 0, 0, "")
	c.authenticated = false

	HandleIncomingFrame(c, []byte(`{"type":"chat_message","payload":{"room_id":7,"content":"Ahoj","message_type":"text"}}`))

	requireErrorFrame(t, c)
}

func TestHandleIncomingFrame_UnknownType(t *testing.T) {
	h := NewHub()
	c := newTestClient(h, 1, 10, "Albus Brumbál")

	HandleIncomingFrame(c, []byte(`{"type":"teleport","payload":{}}`))

	requireErrorFrame(t, c)
}

func TestHandleIncomingFrame_ChatOutsideRoomRejected(t *testing.T) {
	h := NewHub()
	c := newTestClient(h, 1, 10, "Albus Brumbál")

	HandleIncomingFrame(c, []byte(`{"type":"chat_message","payload":{"room_id":7,"content":"Ahoj"}}`))

	requireErrorFrame(t, c)
}

func TestHandleIncomingFrame_MessageLengthBounds(t *testing.T) {
	h := NewHub()

	tests := []struct {
		name    string
		content string
	}{
		{"empty", ""},
		{"too long", strings.Repeat("a", 5001)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(h, 1, 10, "Albus Brumbál")
			c.rooms[7] = true

			frame := fmt.Sprintf(`{"type":"chat_message","payload":{"room_id":7,"content":%q}}`, tt.content)
			HandleIncomingFrame(c, []byte(frame))

			requireErrorFrame(t, c)
		})
	}
}

func TestHandleIncomingFrame_NarratorRequiresPermission(t *testing.T) {
	h := NewHub()
	c := newTestClient(h, 1, 10, "Albus Brumbál")
	c.rooms[7] = true
	c.canNarrate = false

	HandleIncomingFrame(c, []byte(`{"type":"chat_message","payload":{"room_id":7,"content":"Ahoj","message_type":"narrator"}}`))

	requireErrorFrame(t, c)
}

func TestHandleIncomingFrame_UnsupportedMessageType(t *testing.T) {
	h := NewHub()
	c := newTestClient(h, 1, 10, "Albus Brumbál")
	c.rooms[7] = true

	HandleIncomingFrame(c, []byte(`{"type":"chat_message","payload":{"room_id":7,"content":"Ahoj","message_type":"dice"}}`))

	requireErrorFrame(t, c)
}

func TestHandleIncomingFrame_GameActionOutsideRoomRejected(t *testing.T) {
	h := NewHub()
	c := newTestClient(h, 1, 10, "Albus Brumbál")

	HandleIncomingFrame(c, []byte(`{"type":"dice_roll","payload":{"room_id":7}}`))

	requireErrorFrame(t, c)
}

func TestAccessRegistry(t *testing.T) {
	a := newAccessRegistry()

	if a.allowed(1, 7) {
		t.Error("allowed() before grant = true, want false")
	}
	a.grant(1, 7)
	if !a.allowed(1, 7) {
		t.Error("allowed() after grant = false, want true")
	}
	if a.allowed(2, 7) {
		t.Error("allowed() leaked to another user")
	}
}
