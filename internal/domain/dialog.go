package domain

// DialogStep is the state of a chat's edit-setting conversation.
type DialogStep string

const (
	DialogIdle          DialogStep = "idle"
	DialogAwaitingValue DialogStep = "awaiting_value"
)

// DialogState is the per-chat conversation state.
// Setting is only meaningful in DialogAwaitingValue.
type DialogState struct {
	Step    DialogStep `json:"step"`
	Setting string     `json:"setting,omitempty"`
}

// IdleDialog returns the initial state.
func IdleDialog() DialogState {
	return DialogState{Step: DialogIdle}
}

// AwaitingValue returns the state waiting for a new value of setting.
func AwaitingValue(setting string) DialogState {
	return DialogState{Step: DialogAwaitingValue, Setting: setting}
}
