package entity_test

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"bookkeep/internal/entity"
)

func TestGoalRoundTrip(t *testing.T) {
	goal := &entity.Goal{
		Books: []entity.BookEntry{
			{Name: "Dune", Status: true},
			{Name: "Hyperion", Status: false},
		},
		StartDate: time.Date(2025, time.January, 1, 8, 30, 0, 0, time.UTC),
		EndDate:   time.Date(2025, time.December, 31, 23, 59, 59, 0, time.UTC),
	}
	goal.Recompute()

	data, err := goal.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	decoded, err := entity.DecodeGoal(data)
	if err != nil {
		t.Fatalf("DecodeGoal: %v", err)
	}
	if !reflect.DeepEqual(goal, decoded) {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", decoded, goal)
	}
}

func TestGoalEncodeNormalizesDates(t *testing.T) {
	loc := time.FixedZone("EST", -5*60*60)
	goal := &entity.Goal{
		Books:     []entity.BookEntry{{Name: "A"}},
		StartDate: time.Date(2025, time.March, 3, 10, 0, 0, 123456789, loc),
	}
	data, err := goal.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !strings.Contains(string(data), `"startDate": "2025-03-03T15:00:00Z"`) {
		t.Fatalf("expected UTC second precision date, got %s", data)
	}
	if strings.Contains(string(data), "counted") {
		t.Fatalf("expected counted to be omitted when false, got %s", data)
	}
	if strings.Contains(string(data), "completed") {
		t.Fatalf("derived progress must not be persisted, got %s", data)
	}
}

func TestDecodeGoalAcceptsFractionalSeconds(t *testing.T) {
	goal, err := entity.DecodeGoal([]byte(`{"books":[{"name":"A","status":true}],"startDate":"2025-01-02T03:04:05.678Z","endDate":"2025-02-02T03:04:05+01:00"}`))
	if err != nil {
		t.Fatalf("DecodeGoal: %v", err)
	}
	if want := time.Date(2025, time.January, 2, 3, 4, 5, 0, time.UTC); !goal.StartDate.Equal(want) {
		t.Fatalf("unexpected start date %v", goal.StartDate)
	}
	if want := time.Date(2025, time.February, 2, 2, 4, 5, 0, time.UTC); !goal.EndDate.Equal(want) {
		t.Fatalf("unexpected end date %v", goal.EndDate)
	}
	if goal.Completed != 1 {
		t.Fatalf("expected progress recomputed on decode, got %v", goal.Completed)
	}
}

func TestTolerantDecodeDefaults(t *testing.T) {
	inputs := map[string][]byte{
		"empty object": []byte(`{}`),
		"garbage":      []byte("\x00not json at all"),
		"empty file":   nil,
		"array":        []byte(`[1,2,3]`),
	}
	for name, data := range inputs {
		t.Run(name, func(t *testing.T) {
			review, reviewErr := entity.DecodeReview(data)
			if review.Description != entity.PlaceholderDescription || len(review.Tags) != 0 || review.Tags == nil {
				t.Fatalf("unexpected review defaults: %+v", review)
			}
			goal, _ := entity.DecodeGoal(data)
			if goal.Books == nil || len(goal.Books) != 0 || !goal.StartDate.IsZero() || goal.Completed != 0 {
				t.Fatalf("unexpected goal defaults: %+v", goal)
			}
			book, _ := entity.DecodeTTSBook(data)
			if book.Description != entity.PlaceholderDescription || book.PageNumber != 0 {
				t.Fatalf("unexpected tts defaults: %+v", book)
			}
			profile, _ := entity.DecodeProfile(data)
			if profile.Username != entity.DefaultUsername || profile.ReviewCount != 0 {
				t.Fatalf("unexpected profile defaults: %+v", profile)
			}

			wantErr := name != "empty object"
			if (reviewErr != nil) != wantErr {
				t.Fatalf("unexpected error state: %v", reviewErr)
			}
			if reviewErr != nil && !errors.Is(reviewErr, entity.ErrDecode) {
				t.Fatalf("expected ErrDecode, got %v", reviewErr)
			}
		})
	}
}

func TestDecodeKeepsGoodFieldsWhenOneIsMalformed(t *testing.T) {
	review, err := entity.DecodeReview([]byte(`{"description":"Great","tags":"scifi"}`))
	if !errors.Is(err, entity.ErrDecode) {
		t.Fatalf("expected ErrDecode, got %v", err)
	}
	if review.Description != "Great" || len(review.Tags) != 0 {
		t.Fatalf("unexpected review: %+v", review)
	}

	goal, err := entity.DecodeGoal([]byte(`{"books":[{"name":"A","status":false}],"startDate":"yesterday"}`))
	if !errors.Is(err, entity.ErrDecode) {
		t.Fatalf("expected ErrDecode, got %v", err)
	}
	if len(goal.Books) != 1 || !goal.StartDate.IsZero() {
		t.Fatalf("unexpected goal: %+v", goal)
	}
}

func TestDecodeTTSBookAliasesAndClamps(t *testing.T) {
	book, err := entity.DecodeTTSBook([]byte(`{"description":"Author: Frank Herbert","booknumber":12}`))
	if err != nil {
		t.Fatalf("DecodeTTSBook: %v", err)
	}
	if book.PageNumber != 12 || book.Description != "Author: Frank Herbert" {
		t.Fatalf("unexpected book: %+v", book)
	}

	book, err = entity.DecodeTTSBook([]byte(`{"pageNumber":-4,"booknumber":9}`))
	if err != nil {
		t.Fatalf("DecodeTTSBook: %v", err)
	}
	if book.PageNumber != 0 {
		t.Fatalf("expected negative page clamped to 0, got %d", book.PageNumber)
	}

	data, err := (&entity.TTSBook{Description: "d", PageNumber: 3}).Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !strings.Contains(string(data), `"pageNumber": 3`) {
		t.Fatalf("expected pageNumber key, got %s", data)
	}
}

func TestReviewEncodeMatchesLegacyShape(t *testing.T) {
	data, err := (&entity.Review{Description: "Sci-fi classic", Tags: []string{"scifi", "classic"}}).Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	var got map[string]any
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	want := map[string]any{"description": "Sci-fi classic", "tags": []any{"scifi", "classic"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected sidecar: %v", got)
	}
}

func TestProfileCodecUsesLegacyKeys(t *testing.T) {
	profile := &entity.Profile{Username: "Ann", InstallDate: "Jan 9, 2025", ReviewCount: 3, GoalsCompletedCount: 1}
	data, err := profile.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	for _, key := range []string{`"username"`, `"date"`, `"reviews"`, `"goalsc"`} {
		if !strings.Contains(string(data), key) {
			t.Fatalf("expected key %s in %s", key, data)
		}
	}
	decoded, err := entity.DecodeProfile(data)
	if err != nil {
		t.Fatalf("DecodeProfile: %v", err)
	}
	if !reflect.DeepEqual(profile, decoded) {
		t.Fatalf("round trip mismatch: %+v", decoded)
	}

	clamped, err := entity.DecodeProfile([]byte(`{"reviews":-2,"goalsc":-1}`))
	if err != nil {
		t.Fatalf("DecodeProfile: %v", err)
	}
	if clamped.ReviewCount != 0 || clamped.GoalsCompletedCount != 0 {
		t.Fatalf("expected counters clamped, got %+v", clamped)
	}
}

func TestDecodeDispatch(t *testing.T) {
	for _, kind := range []entity.Kind{entity.KindGoal, entity.KindReview, entity.KindTTS, entity.KindProfile} {
		e, err := entity.Decode(kind, []byte(`{}`))
		if err != nil {
			t.Fatalf("Decode(%s): %v", kind, err)
		}
		if e.Kind() != kind {
			t.Fatalf("Decode(%s) returned %s", kind, e.Kind())
		}
	}
	if _, err := entity.Decode("shelf", nil); err == nil {
		t.Fatal("expected error for unknown kind")
	}
}
