package websocket

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionPing Action = "ping"
)

// RequestEnvelope is used to peek at the action before full parsing.
type RequestEnvelope struct {
	Action Action `json:"action"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventError         Event = "error"
	EventPong          Event = "pong"
	EventExamLaunched  Event = "exam_launched"
	EventAnswerSaved   Event = "answer_saved"
	EventExamFinished  Event = "exam_finished"
	EventExamGraded    Event = "exam_graded"
	EventSessionClosed Event = "session_closed"
)

// MonitorEvent is one live update on a session monitor stream. Score and
// Passed are set on exam_graded only.
type MonitorEvent struct {
	Event     Event  `json:"event"`
	SessionID int    `json:"session_id"`
	ExamID    string `json:"exam_id,omitempty"`
	Callsign  string `json:"callsign,omitempty"`
	Element   int    `json:"element,omitempty"`
	Score     *int   `json:"score,omitempty"`
	Passed    *bool  `json:"passed,omitempty"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
