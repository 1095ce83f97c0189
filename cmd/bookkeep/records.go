package main

import (
	"bookkeep/internal/entity"
)

// entityRecord is the machine-readable view of one entity, shared by the
// --json flags and the export command.
type entityRecord struct {
	Kind        string       `json:"kind" yaml:"kind"`
	Name        string       `json:"name" yaml:"name"`
	Cover       string       `json:"cover,omitempty" yaml:"cover,omitempty"`
	Placeholder bool         `json:"placeholder_cover,omitempty" yaml:"placeholder_cover,omitempty"`
	Degraded    bool         `json:"degraded,omitempty" yaml:"degraded,omitempty"`
	Description string       `json:"description,omitempty" yaml:"description,omitempty"`
	Tags        []string     `json:"tags,omitempty" yaml:"tags,omitempty"`
	Books       []bookRecord `json:"books,omitempty" yaml:"books,omitempty"`
	StartDate   string       `json:"start_date,omitempty" yaml:"start_date,omitempty"`
	EndDate     string       `json:"end_date,omitempty" yaml:"end_date,omitempty"`
	Progress    *float64     `json:"progress,omitempty" yaml:"progress,omitempty"`
	PageNumber  *int         `json:"page_number,omitempty" yaml:"page_number,omitempty"`
	Content     string       `json:"content,omitempty" yaml:"content,omitempty"`
}

type bookRecord struct {
	Name string `json:"name" yaml:"name"`
	Done bool   `json:"done" yaml:"done"`
}

type profileRecord struct {
	Username       string `json:"username" yaml:"username"`
	InstallDate    string `json:"install_date" yaml:"install_date"`
	ReviewCount    int    `json:"review_count" yaml:"review_count"`
	GoalsCompleted int    `json:"goals_completed" yaml:"goals_completed"`
}

func newEntityRecord(s entity.Summary) entityRecord {
	rec := entityRecord{
		Kind:        string(s.Kind),
		Name:        s.Name,
		Cover:       s.Cover.Path,
		Placeholder: s.Cover.Placeholder,
		Degraded:    s.Degraded,
		Content:     s.ContentPath,
	}
	switch e := s.Entity.(type) {
	case *entity.Review:
		rec.Description = e.Description
		rec.Tags = e.Tags
	case *entity.Goal:
		progress := e.Recompute()
		rec.Progress = &progress
		rec.StartDate = entity.FormatDate(e.StartDate)
		rec.EndDate = entity.FormatDate(e.EndDate)
		rec.Books = make([]bookRecord, 0, len(e.Books))
		for _, b := range e.Books {
			rec.Books = append(rec.Books, bookRecord{Name: b.Name, Done: b.Status})
		}
	case *entity.TTSBook:
		page := e.PageNumber
		rec.Description = e.Description
		rec.PageNumber = &page
	}
	return rec
}

func newEntityRecords(items []entity.Summary) []entityRecord {
	out := make([]entityRecord, 0, len(items))
	for _, item := range items {
		out = append(out, newEntityRecord(item))
	}
	return out
}

func newProfileRecord(p *entity.Profile) profileRecord {
	return profileRecord{
		Username:       p.Username,
		InstallDate:    p.InstallDate,
		ReviewCount:    p.ReviewCount,
		GoalsCompleted: p.GoalsCompletedCount,
	}
}
