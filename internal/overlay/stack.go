// Package overlay tracks the transient, named indicators (loading spinners,
// modal notices) shown over a screen.
package overlay

// LoadingTag is the tag used by Show and ShowLoading.
const LoadingTag = "LOADING"

// Entry is one overlay shown over a screen.
type Entry struct {
	Tag       string
	Container string
	Message   string
}

// Presenter is the host's screen-transition primitive: it adds and removes
// the actual overlay views.
type Presenter interface {
	Present(e Entry)
	Dismiss(e Entry)
}

// Stack is the ordered set of overlays of one screen. It is not safe for
// concurrent use; screens drive it from the UI loop.
type Stack struct {
	entries   []Entry
	presenter Presenter
	messages  *Messages
}

// NewStack creates an empty stack. presenter may be nil for headless use.
func NewStack(p Presenter, m *Messages) *Stack {
	return &Stack{presenter: p, messages: m}
}

// Show shows a loading overlay in container with message.
func (s *Stack) Show(container, message string) {
	s.ShowTagged(LoadingTag, container, message)
}

// ShowLoading shows the loading overlay with the localized default message.
func (s *Stack) ShowLoading(container string) {
	s.Show(container, s.messages.Loading())
}

// ShowTagged shows an overlay named tag. If one with the same tag is already
// shown, its container and message are replaced in place instead of stacking
// a duplicate.
func (s *Stack) ShowTagged(tag, container, message string) {
	e := Entry{Tag: tag, Container: container, Message: message}
	if i := s.indexOf(tag); i >= 0 {
		s.entries[i] = e
	} else {
		s.entries = append(s.entries, e)
	}
	if s.presenter != nil {
		s.presenter.Present(e)
	}
}

// Hide removes the most recently shown overlay. It is a no-op when nothing
// is shown.
func (s *Stack) Hide() {
	if len(s.entries) == 0 {
		return
	}
	s.removeAt(len(s.entries) - 1)
}

// HideTag removes the overlay named tag and reports whether one was shown.
func (s *Stack) HideTag(tag string) bool {
	i := s.indexOf(tag)
	if i < 0 {
		return false
	}
	s.removeAt(i)
	return true
}

// Peek returns the most recent overlay.
func (s *Stack) Peek() (Entry, bool) {
	if len(s.entries) == 0 {
		return Entry{}, false
	}
	return s.entries[len(s.entries)-1], true
}

// Len returns the number of overlays shown.
func (s *Stack) Len() int { return len(s.entries) }

// Tags returns the tags of the shown overlays, oldest first.
func (s *Stack) Tags() []string {
	out := make([]string, len(s.entries))
	for i, e := range s.entries {
		out[i] = e.Tag
	}
	return out
}

// Clear dismisses every overlay, newest first.
func (s *Stack) Clear() {
	for len(s.entries) > 0 {
		s.Hide()
	}
}

func (s *Stack) indexOf(tag string) int {
	for i, e := range s.entries {
		if e.Tag == tag {
			return i
		}
	}
	return -1
}

func (s *Stack) removeAt(i int) {
	e := s.entries[i]
	s.entries = append(s.entries[:i], s.entries[i+1:]...)
	if s.presenter != nil {
		s.presenter.Dismiss(e)
	}
}
