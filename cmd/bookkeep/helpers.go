package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"bookkeep/internal/entity"
)

const dayLayout = "2006-01-02"

// readCoverFile loads an optional cover image. An empty path yields nil so
// the store falls back to the placeholder.
func readCoverFile(path string) ([]byte, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read cover: %w", err)
	}
	return data, nil
}

// parseDay accepts YYYY-MM-DD or RFC 3339. An empty value yields fallback.
func parseDay(value string, fallback time.Time) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback, nil
	}
	if t, err := time.ParseInLocation(dayLayout, value, time.UTC); err == nil {
		return t, nil
	}
	t, err := entity.ParseDate(value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD)", value)
	}
	return t, nil
}

func formatDay(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.UTC().Format(dayLayout)
}

func formatPercent(progress float64) string {
	return fmt.Sprintf("%.0f%%", progress*100)
}

func titleCase(value string) string {
	return cases.Title(language.English, cases.NoLower).String(value)
}

func checkMark(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}

func coverLabel(cover entity.Cover) string {
	if cover.Placeholder {
		return "placeholder"
	}
	return fmt.Sprintf("%s %dx%d", cover.Format, cover.Width, cover.Height)
}

func orDash(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}

// kindNoun names one entity of kind in user-facing text.
func kindNoun(kind entity.Kind) string {
	if kind == entity.KindTTS {
		return "TTS book"
	}
	return string(kind)
}

func kindNounPlural(kind entity.Kind) string {
	return kindNoun(kind) + "s"
}
