package model

// NoticeLevel ranks an inline notice.
type NoticeLevel string

// Notice levels.
const (
	NoticeInfo    NoticeLevel = "info"
	NoticeWarning NoticeLevel = "warning"
	NoticeError   NoticeLevel = "error"
)

// Notice is a non-blocking message surfaced next to the dashboard output.
type Notice struct {
	Level   NoticeLevel `json:"level"`
	Project string      `json:"project,omitempty"`
	Message string      `json:"message"`
}
