package domain

type ToggleKind string

const (
	ToggleLike   ToggleKind = "LIKE"
	ToggleFollow ToggleKind = "FOLLOW"
)

type ToggleState string

const (
	Idle       ToggleState = "IDLE"
	Pending    ToggleState = "PENDING"
	Committed  ToggleState = "COMMITTED"
	RolledBack ToggleState = "ROLLED_BACK"
)
