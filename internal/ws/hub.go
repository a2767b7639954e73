package ws

import (
	"encoding/json"
	"sync"

	"flowtasks/internal/logger"

	"github.com/prometheus/client_golang/prometheus"
)

var eventsPublished = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "notification_events_published_total",
		Help: "Events published to project groups, by event name",
	},
	[]string{"event"},
)

func init() {
	prometheus.MustRegister(eventsPublished)
}

// Hub fans events out to clients subscribed to project groups. Delivery is
// at-most-once best-effort: no persistence, no replay, slow clients are
// skipped rather than blocking a publish.
type Hub struct {
	mu     sync.RWMutex
	groups map[string]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{groups: make(map[string]map[*Client]struct{})}
}

// groupName is the channel key clients join and services publish to.
func groupName(projectID string) string {
	return "project-" + projectID
}

func (h *Hub) join(c *Client, projectID string) {
	name := groupName(projectID)
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.groups[name] == nil {
		h.groups[name] = make(map[*Client]struct{})
	}
	h.groups[name][c] = struct{}{}
	logger.Debug("ws client joined group", "group", name, "user_id", c.UserID)
}

func (h *Hub) leave(c *Client, projectID string) {
	name := groupName(projectID)
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeFromGroup(c, name)
}

// removeAll detaches a disconnected client from every group.
func (h *Hub) removeAll(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for name := range h.groups {
		h.removeFromGroup(c, name)
	}
}

// caller must hold h.mu
func (h *Hub) removeFromGroup(c *Client, name string) {
	clients, ok := h.groups[name]
	if !ok {
		return
	}
	delete(clients, c)
	if len(clients) == 0 {
		delete(h.groups, name)
	}
}

// Publish sends a named event to every client currently subscribed to the
// project's group. A client whose send buffer is full is skipped.
func (h *Hub) Publish(projectID, event string, payload any) {
	msg, err := json.Marshal(serverEvent{Event: event, Payload: payload})
	if err != nil {
		logger.Error("ws marshal event", "event", event, "error", err)
		return
	}

	name := groupName(projectID)
	h.mu.RLock()
	defer h.mu.RUnlock()

	eventsPublished.WithLabelValues(event).Inc()
	for c := range h.groups[name] {
		select {
		case c.send <- msg:
		default:
			logger.Warn("ws client send buffer full, dropping event",
				"group", name, "user_id", c.UserID, "event", event)
		}
	}
}

// GroupSize reports current subscribers of a project group.
func (h *Hub) GroupSize(projectID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.groups[groupName(projectID)])
}

// The Hub is the service layer's Notifier: one named event per
// state-changing operation, published only after the write committed.

func (h *Hub) TaskCreated(projectID, taskKey string) {
	h.Publish(projectID, EventTaskCreated, taskPayload{ProjectID: projectID, TaskKey: taskKey})
}

func (h *Hub) TaskUpdated(projectID, taskKey string) {
	h.Publish(projectID, EventTaskUpdated, taskPayload{ProjectID: projectID, TaskKey: taskKey})
}

func (h *Hub) TaskMoved(projectID, taskKey, status string) {
	h.Publish(projectID, EventTaskMoved, movedPayload{ProjectID: projectID, TaskKey: taskKey, Status: status})
}

func (h *Hub) TaskDeleted(projectID, taskKey string) {
	h.Publish(projectID, EventTaskDeleted, taskPayload{ProjectID: projectID, TaskKey: taskKey})
}

func (h *Hub) CommentAdded(projectID, taskKey, commentID string) {
	h.Publish(projectID, EventCommentAdded, commentPayload{ProjectID: projectID, TaskKey: taskKey, CommentID: commentID})
}

func (h *Hub) UserAssigned(projectID, taskKey string, assigneeID *string) {
	h.Publish(projectID, EventUserAssigned, assignedPayload{ProjectID: projectID, TaskKey: taskKey, AssigneeID: assigneeID})
}
