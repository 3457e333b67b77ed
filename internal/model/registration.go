package model

// Registration records which elements a candidate signed up for in a session.
type Registration struct {
	ID        int  `json:"id"`
	UserID    int  `json:"user_id"`
	SessionID int  `json:"session_id"`
	Tech      bool `json:"tech"`
	Gen       bool `json:"gen"`
	Extra     bool `json:"extra"`
	Valid     bool `json:"valid"`
}

// HasElement reports whether the registration covers the given element.
func (r *Registration) HasElement(e Element) bool {
	if r == nil || !r.Valid {
		return false
	}
	switch e {
	case ElementTechnician:
		return r.Tech
	case ElementGeneral:
		return r.Gen
	case ElementExtra:
		return r.Extra
	default:
		return false
	}
}

// SetElement flips the flag for the given element.
func (r *Registration) SetElement(e Element, on bool) {
	switch e {
	case ElementTechnician:
		r.Tech = on
	case ElementGeneral:
		r.Gen = on
	case ElementExtra:
		r.Extra = on
	}
}

// Empty reports whether no element flag remains set.
func (r *Registration) Empty() bool {
	return !r.Tech && !r.Gen && !r.Extra
}

// RegisterRequest is the payload for registering or cancelling an element.
type RegisterRequest struct {
	Element int `json:"element" binding:"required,oneof=2 3 4"`
}
