package entity

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Kind identifies an entity type.
type Kind string

const (
	KindGoal    Kind = "goal"
	KindReview  Kind = "review"
	KindTTS     Kind = "tts"
	KindProfile Kind = "profile"
)

// CollectionKinds lists the kinds stored as one directory per entity.
func CollectionKinds() []Kind {
	return []Kind{KindGoal, KindReview, KindTTS}
}

// ParseKind accepts the canonical kind names plus the plural forms used on
// the command line.
func ParseKind(value string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "goal", "goals":
		return KindGoal, nil
	case "review", "reviews":
		return KindReview, nil
	case "tts", "ttsbook", "ttsbooks", "book", "books":
		return KindTTS, nil
	case "profile":
		return KindProfile, nil
	default:
		return "", fmt.Errorf("unknown entity kind %q", value)
	}
}

// Plural returns the collection label used in logs and CLI output.
func (k Kind) Plural() string {
	switch k {
	case KindGoal:
		return "goals"
	case KindReview:
		return "reviews"
	case KindTTS:
		return "tts"
	default:
		return string(k)
	}
}

// Layout captures the legacy file naming of one kind.
type Layout struct {
	Kind       Kind
	Collection string
	Singleton  bool
}

var layouts = map[Kind]Layout{
	KindGoal:    {Kind: KindGoal, Collection: "BookKeepGoals"},
	KindReview:  {Kind: KindReview, Collection: "BookKeepReviews"},
	KindTTS:     {Kind: KindTTS, Collection: "BookKeepTTSBooks"},
	KindProfile: {Kind: KindProfile, Collection: "BookKeepProfile", Singleton: true},
}

// LayoutFor returns the naming rules for kind.
func LayoutFor(kind Kind) (Layout, error) {
	layout, ok := layouts[kind]
	if !ok {
		return Layout{}, fmt.Errorf("no layout for entity kind %q", kind)
	}
	return layout, nil
}

// CollectionDirs returns the four top-level directory names in a stable order.
func CollectionDirs() []string {
	return []string{
		layouts[KindGoal].Collection,
		layouts[KindReview].Collection,
		layouts[KindTTS].Collection,
		layouts[KindProfile].Collection,
	}
}

// Lower folds name the way sidecar file names are derived.
func Lower(name string) string {
	// Casers carry state, so each call gets its own.
	return cases.Lower(language.Und).String(name)
}

// SidecarName returns the JSON sidecar file name for an entity called name.
func (l Layout) SidecarName(name string) string {
	switch l.Kind {
	case KindGoal:
		return Lower(name) + "data.json"
	case KindReview:
		return Lower(name) + "_data.json"
	case KindTTS:
		return name + "_data.json"
	default:
		return "profile_data.json"
	}
}

// CoverBase returns the cover image file name without extension.
func (l Layout) CoverBase(name string) string {
	switch l.Kind {
	case KindGoal:
		return Lower(name)
	case KindProfile:
		return "profile"
	default:
		return name
	}
}

// CoverNames returns candidate cover file names in probe order.
func (l Layout) CoverNames(name string) []string {
	base := l.CoverBase(name)
	names := make([]string, 0, len(coverExtensions))
	for _, ext := range coverExtensions {
		names = append(names, base+ext)
	}
	return names
}

// ContentName returns the content file name, or "" for kinds without one.
func (l Layout) ContentName(name string) string {
	if l.Kind == KindTTS {
		return name + ".pdf"
	}
	return ""
}
