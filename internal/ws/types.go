package ws

// Event names pushed to project groups. Payloads carry the minimal
// identifying tuple; clients re-fetch full state on receipt.
const (
	EventTaskCreated  = "TaskCreated"
	EventTaskUpdated  = "TaskUpdated"
	EventTaskMoved    = "TaskMoved"
	EventTaskDeleted  = "TaskDeleted"
	EventCommentAdded = "CommentAdded"
	EventUserAssigned = "UserAssigned"
)

// Client -> server message types.
const (
	MsgJoin  = "join"
	MsgLeave = "leave"
	MsgPing  = "ping"
)

type clientMessage struct {
	Type      string `json:"type"`
	ProjectID string `json:"project_id"`
}

type serverEvent struct {
	Event   string `json:"event"`
	Payload any    `json:"payload"`
}

type taskPayload struct {
	ProjectID string `json:"project_id"`
	TaskKey   string `json:"task_key"`
}

type movedPayload struct {
	ProjectID string `json:"project_id"`
	TaskKey   string `json:"task_key"`
	Status    string `json:"status"`
}

type assignedPayload struct {
	ProjectID  string  `json:"project_id"`
	TaskKey    string  `json:"task_key"`
	AssigneeID *string `json:"assignee_id"`
}

type commentPayload struct {
	ProjectID string `json:"project_id"`
	TaskKey   string `json:"task_key"`
	CommentID string `json:"comment_id"`
}
