package domain

import "time"

// DefaultHistoryCapacity bounds how many completed exchanges a session keeps.
const DefaultHistoryCapacity = 10

// ConversationTurn is one completed user/assistant exchange. Immutable once
// appended.
type ConversationTurn struct {
	User      string
	Assistant string
	Timestamp time.Time
}

// ConversationHistory is a bounded ordered log of turns, newest last. It is
// not safe for concurrent mutation; the session registry serializes access
// per session.
type ConversationHistory struct {
	turns    []ConversationTurn
	capacity int
}

// NewConversationHistory creates a history holding at most capacity turns.
// A non-positive capacity falls back to DefaultHistoryCapacity.
func NewConversationHistory(capacity int) *ConversationHistory {
	if capacity <= 0 {
		capacity = DefaultHistoryCapacity
	}
	return &ConversationHistory{capacity: capacity}
}

// Append adds a turn at the tail, evicting the oldest turn when the
// capacity would be exceeded.
func (h *ConversationHistory) Append(turn ConversationTurn) {
	h.turns = append(h.turns, turn)
	if len(h.turns) > h.capacity {
		h.turns = h.turns[len(h.turns)-h.capacity:]
	}
}

// Recent returns a copy of the last n turns without mutating the history.
func (h *ConversationHistory) Recent(n int) []ConversationTurn {
	if n <= 0 || len(h.turns) == 0 {
		return nil
	}
	if n > len(h.turns) {
		n = len(h.turns)
	}
	out := make([]ConversationTurn, n)
	copy(out, h.turns[len(h.turns)-n:])
	return out
}

// Len reports the number of stored turns.
func (h *ConversationHistory) Len() int {
	return len(h.turns)
}

// Clear empties the history.
func (h *ConversationHistory) Clear() {
	h.turns = nil
}
