package report

// Status tags the outcome of one report section
type Status string

const (
	StatusReady   Status = "ready"
	StatusSkipped Status = "skipped"
	StatusFatal   Status = "fatal"
)

// Section is a tagged result: Ready carries data, Skipped and Fatal carry a reason.
type Section[T any] struct {
	Status Status `json:"status"`
	Reason string `json:"reason,omitempty"`
	Data   *T     `json:"data,omitempty"`
}

// Ready wraps computed data
func Ready[T any](data T) Section[T] {
	return Section[T]{Status: StatusReady, Data: &data}
}

// Skipped records a degraded-but-continuable section
func Skipped[T any](reason string) Section[T] {
	return Section[T]{Status: StatusSkipped, Reason: reason}
}

// Fatal records a section that was never computed because the pass halted
func Fatal[T any](reason string) Section[T] {
	return Section[T]{Status: StatusFatal, Reason: reason}
}

// IsReady reports whether the section carries data
func (s Section[T]) IsReady() bool {
	return s.Status == StatusReady && s.Data != nil
}

// NoticeLevel maps to the banner colour shown to the reader
type NoticeLevel string

const (
	NoticeError   NoticeLevel = "error"
	NoticeWarning NoticeLevel = "warning"
	NoticeInfo    NoticeLevel = "info"
	NoticeSuccess NoticeLevel = "success"
)

// Notice is a user-visible banner describing degradation state
type Notice struct {
	Level   NoticeLevel `json:"level"`
	Message string      `json:"message"`
}
