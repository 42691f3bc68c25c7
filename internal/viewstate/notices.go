package viewstate

// NoticeKind styles a notice.
type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeError   NoticeKind = "error"
)

// Notice is a non-blocking message for the visitor, shown as a toast.
type Notice struct {
	Kind    NoticeKind
	Message string
}

func (s *State) Notify(kind NoticeKind, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notices = append(s.notices, Notice{Kind: kind, Message: message})
}

// DrainNotices returns and clears the pending notices.
func (s *State) DrainNotices() []Notice {
	s.mu.Lock()
	defer s.mu.Unlock()
	notices := s.notices
	s.notices = nil
	return notices
}
