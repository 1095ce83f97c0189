package entity

// Summary is one listed entity with its derived fields computed.
type Summary struct {
	Kind   Kind
	Name   string
	Dir    string
	Cover  Cover
	Entity Entity
	// ContentPath is set for TTS books whose content file exists.
	ContentPath string
	// Degraded is set when the sidecar was corrupt and defaults stand in.
	Degraded bool
}

// Review returns the review payload, if any.
func (s Summary) Review() (*Review, bool) {
	r, ok := s.Entity.(*Review)
	return r, ok
}

// Goal returns the goal payload, if any.
func (s Summary) Goal() (*Goal, bool) {
	g, ok := s.Entity.(*Goal)
	return g, ok
}

// TTSBook returns the TTS book payload, if any.
func (s Summary) TTSBook() (*TTSBook, bool) {
	b, ok := s.Entity.(*TTSBook)
	return b, ok
}

// Tags returns the review tags, or nil for other kinds.
func (s Summary) Tags() []string {
	if r, ok := s.Review(); ok {
		return r.Tags
	}
	return nil
}
