package ws

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(userID string, hub *Hub) *Client {
	// no conn: these tests exercise group membership and fan-out only
	return NewClient(userID, nil, hub)
}

func receivedEvent(t *testing.T, c *Client) serverEvent {
	t.Helper()
	select {
	case raw := <-c.send:
		var ev serverEvent
		require.NoError(t, json.Unmarshal(raw, &ev))
		return ev
	default:
		t.Fatal("no event in send buffer")
		return serverEvent{}
	}
}

func TestHub_PublishReachesOnlyJoinedGroup(t *testing.T) {
	hub := NewHub()
	a := testClient("alice", hub)
	b := testClient("bob", hub)
	other := testClient("carol", hub)

	hub.join(a, "proj-1")
	hub.join(b, "proj-1")
	hub.join(other, "proj-2")

	hub.TaskCreated("proj-1", "FLOW-1")

	for _, c := range []*Client{a, b} {
		ev := receivedEvent(t, c)
		assert.Equal(t, EventTaskCreated, ev.Event)
		payload := ev.Payload.(map[string]any)
		assert.Equal(t, "proj-1", payload["project_id"])
		assert.Equal(t, "FLOW-1", payload["task_key"])
	}
	assert.Empty(t, other.send)
}

func TestHub_LeaveStopsDelivery(t *testing.T) {
	hub := NewHub()
	a := testClient("alice", hub)

	hub.join(a, "proj-1")
	require.Equal(t, 1, hub.GroupSize("proj-1"))

	hub.leave(a, "proj-1")
	assert.Equal(t, 0, hub.GroupSize("proj-1"))

	hub.TaskUpdated("proj-1", "FLOW-1")
	assert.Empty(t, a.send)
}

func TestHub_RemoveAllDetachesEveryGroup(t *testing.T) {
	hub := NewHub()
	a := testClient("alice", hub)

	hub.join(a, "proj-1")
	hub.join(a, "proj-2")

	hub.removeAll(a)

	assert.Equal(t, 0, hub.GroupSize("proj-1"))
	assert.Equal(t, 0, hub.GroupSize("proj-2"))
}

func TestHub_SlowClientIsSkipped(t *testing.T) {
	hub := NewHub()
	slow := testClient("slow", hub)
	fast := testClient("fast", hub)

	hub.join(slow, "proj-1")
	hub.join(fast, "proj-1")

	for i := 0; i < sendBuffer; i++ {
		slow.send <- []byte("backlog")
	}

	// must not block even though slow's buffer is full
	hub.TaskDeleted("proj-1", "FLOW-9")

	ev := receivedEvent(t, fast)
	assert.Equal(t, EventTaskDeleted, ev.Event)
	assert.Len(t, slow.send, sendBuffer)
}

func TestHub_EventPayloads(t *testing.T) {
	hub := NewHub()
	c := testClient("alice", hub)
	hub.join(c, "proj-1")

	hub.TaskMoved("proj-1", "FLOW-2", "InProgress")
	ev := receivedEvent(t, c)
	assert.Equal(t, EventTaskMoved, ev.Event)
	assert.Equal(t, "InProgress", ev.Payload.(map[string]any)["status"])

	hub.CommentAdded("proj-1", "FLOW-2", "comment-1")
	ev = receivedEvent(t, c)
	assert.Equal(t, EventCommentAdded, ev.Event)
	assert.Equal(t, "comment-1", ev.Payload.(map[string]any)["comment_id"])

	hub.UserAssigned("proj-1", "FLOW-2", nil)
	ev = receivedEvent(t, c)
	assert.Equal(t, EventUserAssigned, ev.Event)
	assert.Nil(t, ev.Payload.(map[string]any)["assignee_id"])
}
