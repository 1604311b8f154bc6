package domain

// NoticeKind classifies user-visible notices.
type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeError   NoticeKind = "error"
	NoticeInfo    NoticeKind = "info"
	NoticeWarning NoticeKind = "warning"
)

// Notice is a message shown to the user once.
type Notice struct {
	Kind    NoticeKind `json:"kind"`
	Title   string     `json:"title,omitempty"`
	Message string     `json:"message"`
}

// Prompt is the text of a destructive-action confirmation.
type Prompt struct {
	Title   string
	Text    string
	Confirm string
	Cancel  string
}
