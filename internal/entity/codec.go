package entity

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrDecode marks a sidecar that could not be decoded cleanly. The entity
// returned alongside it is still usable.
var ErrDecode = errors.New("entity: decode sidecar")

// DateLayout is the timestamp format of goal dates on disk.
const DateLayout = time.RFC3339

type goalJSON struct {
	Books     []BookEntry `json:"books"`
	StartDate string      `json:"startDate"`
	EndDate   string      `json:"endDate"`
	Counted   bool        `json:"counted,omitempty"`
}

type reviewJSON struct {
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

type ttsJSON struct {
	Description string `json:"description"`
	PageNumber  int    `json:"pageNumber"`
}

type profileJSON struct {
	Username string `json:"username"`
	Date     string `json:"date"`
	Reviews  int    `json:"reviews"`
	Goals    int    `json:"goalsc"`
}

func marshal(v any) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// FormatDate renders t the way goal sidecars store dates.
func FormatDate(t time.Time) string {
	return t.UTC().Truncate(time.Second).Format(DateLayout)
}

// ParseDate accepts RFC 3339 timestamps with or without fractional seconds.
func ParseDate(value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC().Truncate(time.Second), nil
}

// Encode renders the goal sidecar.
func (g *Goal) Encode() ([]byte, error) {
	books := g.Books
	if books == nil {
		books = []BookEntry{}
	}
	return marshal(goalJSON{
		Books:     books,
		StartDate: FormatDate(g.StartDate),
		EndDate:   FormatDate(g.EndDate),
		Counted:   g.Counted,
	})
}

// Encode renders the review sidecar.
func (r *Review) Encode() ([]byte, error) {
	tags := r.Tags
	if tags == nil {
		tags = []string{}
	}
	return marshal(reviewJSON{Description: r.Description, Tags: tags})
}

// Encode renders the TTS book sidecar.
func (b *TTSBook) Encode() ([]byte, error) {
	return marshal(ttsJSON{Description: b.Description, PageNumber: max(b.PageNumber, 0)})
}

// Encode renders the profile sidecar.
func (p *Profile) Encode() ([]byte, error) {
	return marshal(profileJSON{
		Username: p.Username,
		Date:     p.InstallDate,
		Reviews:  max(p.ReviewCount, 0),
		Goals:    max(p.GoalsCompletedCount, 0),
	})
}

// fields splits a sidecar into its top-level keys. Garbage or a non-object
// payload yields nil and an error wrapping ErrDecode.
func fields(data []byte) (map[string]json.RawMessage, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%w: sidecar is null", ErrDecode)
	}
	return raw, nil
}

// fieldDecoder collects per-key failures so one bad field only resets itself.
type fieldDecoder struct {
	raw  map[string]json.RawMessage
	errs []error
}

func (d *fieldDecoder) decode(key string, dst any) bool {
	value, ok := d.raw[key]
	if !ok || string(value) == "null" {
		return false
	}
	if err := json.Unmarshal(value, dst); err != nil {
		d.errs = append(d.errs, fmt.Errorf("field %q: %w", key, err))
		return false
	}
	return true
}

func (d *fieldDecoder) err() error {
	if len(d.errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrDecode, errors.Join(d.errs...))
}

// DecodeGoal parses a goal sidecar. Books default to empty and dates to the
// zero time.
func DecodeGoal(data []byte) (*Goal, error) {
	goal := NewGoal()
	raw, err := fields(data)
	if err != nil {
		return goal, err
	}
	d := fieldDecoder{raw: raw}

	var books []BookEntry
	if d.decode("books", &books) && books != nil {
		goal.Books = books
	}
	for key, dst := range map[string]*time.Time{"startDate": &goal.StartDate, "endDate": &goal.EndDate} {
		var value string
		if !d.decode(key, &value) || strings.TrimSpace(value) == "" {
			continue
		}
		parsed, err := ParseDate(value)
		if err != nil {
			d.errs = append(d.errs, fmt.Errorf("field %q: %w", key, err))
			continue
		}
		*dst = parsed
	}
	d.decode("counted", &goal.Counted)
	goal.Recompute()
	return goal, d.err()
}

// DecodeReview parses a review sidecar.
func DecodeReview(data []byte) (*Review, error) {
	review := NewReview()
	raw, err := fields(data)
	if err != nil {
		return review, err
	}
	d := fieldDecoder{raw: raw}

	var description string
	if d.decode("description", &description) && description != "" {
		review.Description = description
	}
	var tags []string
	if d.decode("tags", &tags) && tags != nil {
		review.Tags = tags
	}
	return review, d.err()
}

// DecodeTTSBook parses a TTS book sidecar. The legacy "booknumber" key is
// read when "pageNumber" is absent.
func DecodeTTSBook(data []byte) (*TTSBook, error) {
	book := NewTTSBook()
	raw, err := fields(data)
	if err != nil {
		return book, err
	}
	d := fieldDecoder{raw: raw}

	var description string
	if d.decode("description", &description) && description != "" {
		book.Description = description
	}
	if !d.decode("pageNumber", &book.PageNumber) {
		d.decode("booknumber", &book.PageNumber)
	}
	book.PageNumber = max(book.PageNumber, 0)
	return book, d.err()
}

// DecodeProfile parses the profile sidecar.
func DecodeProfile(data []byte) (*Profile, error) {
	profile := NewProfile("")
	raw, err := fields(data)
	if err != nil {
		return profile, err
	}
	d := fieldDecoder{raw: raw}

	var username string
	if d.decode("username", &username) && strings.TrimSpace(username) != "" {
		profile.Username = username
	}
	d.decode("date", &profile.InstallDate)
	d.decode("reviews", &profile.ReviewCount)
	d.decode("goalsc", &profile.GoalsCompletedCount)
	profile.ReviewCount = max(profile.ReviewCount, 0)
	profile.GoalsCompletedCount = max(profile.GoalsCompletedCount, 0)
	return profile, d.err()
}

// Decode dispatches on kind.
func Decode(kind Kind, data []byte) (Entity, error) {
	switch kind {
	case KindGoal:
		return DecodeGoal(data)
	case KindReview:
		return DecodeReview(data)
	case KindTTS:
		return DecodeTTSBook(data)
	case KindProfile:
		return DecodeProfile(data)
	default:
		_, err := LayoutFor(kind)
		return nil, err
	}
}
