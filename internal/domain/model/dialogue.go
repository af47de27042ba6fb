package model

// DialogueState is the per-chat conversation mode.
type DialogueState string

const (
	DialogueIdle          DialogueState = "idle"
	DialogueAwaitingToken DialogueState = "awaiting_token"
)
