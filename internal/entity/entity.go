package entity

import (
	"slices"
	"time"
)

// PlaceholderDescription is shown for reviews and books without one.
const PlaceholderDescription = "No description available"

// DefaultUsername is written to a freshly created profile.
const DefaultUsername = "User"

// Entity is implemented by every directory-backed record.
type Entity interface {
	Kind() Kind
	Encode() ([]byte, error)
}

// BookEntry is one book inside a goal.
type BookEntry struct {
	Name   string `json:"name"`
	Status bool   `json:"status"`
}

// Review is a book the user has read.
type Review struct {
	Description string
	Tags        []string
}

// NewReview returns a review carrying the documented defaults.
func NewReview() *Review {
	return &Review{Description: PlaceholderDescription, Tags: []string{}}
}

func (*Review) Kind() Kind { return KindReview }

// Goal is a reading goal over a list of books.
type Goal struct {
	Books     []BookEntry
	StartDate time.Time
	EndDate   time.Time
	// Counted records that the goal already contributed to the profile's
	// completed-goal counter.
	Counted bool
	// Completed is derived from Books. It is never persisted.
	Completed float64
}

// NewGoal returns an empty goal.
func NewGoal() *Goal {
	return &Goal{Books: []BookEntry{}}
}

func (*Goal) Kind() Kind { return KindGoal }

// Recompute refreshes the derived progress and returns it.
func (g *Goal) Recompute() float64 {
	g.Completed = ComputeProgress(g.Books)
	return g.Completed
}

// IsComplete reports whether every book is done. Goals without books never are.
func (g *Goal) IsComplete() bool {
	return ComputeProgress(g.Books) == 1.0
}

// BookIndex returns the index of the first book called name, or -1.
func (g *Goal) BookIndex(name string) int {
	return slices.IndexFunc(g.Books, func(b BookEntry) bool { return b.Name == name })
}

// TTSBook is a document read aloud, with the last page reached.
type TTSBook struct {
	Description string
	PageNumber  int
}

// NewTTSBook returns a book carrying the documented defaults.
func NewTTSBook() *TTSBook {
	return &TTSBook{Description: PlaceholderDescription}
}

func (*TTSBook) Kind() Kind { return KindTTS }

// Profile is the singleton user record.
type Profile struct {
	Username            string
	InstallDate         string
	ReviewCount         int
	GoalsCompletedCount int
}

// NewProfile returns the default profile installed on date.
func NewProfile(installDate string) *Profile {
	return &Profile{Username: DefaultUsername, InstallDate: installDate}
}

func (*Profile) Kind() Kind { return KindProfile }

// New returns the default entity for kind.
func New(kind Kind) (Entity, error) {
	switch kind {
	case KindGoal:
		return NewGoal(), nil
	case KindReview:
		return NewReview(), nil
	case KindTTS:
		return NewTTSBook(), nil
	case KindProfile:
		return NewProfile(""), nil
	default:
		_, err := LayoutFor(kind)
		return nil, err
	}
}
