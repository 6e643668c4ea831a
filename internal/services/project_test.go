package services

import (
	"strings"
	"testing"
	"time"
)

func TestValidateProjectInput_Valid(t *testing.T) {
	start, end, appErr := validateProjectInput("Website Redesign", "Refresh the marketing site", "2026-01-15", "2026-03-01")
	if appErr != nil {
		t.Fatalf("unexpected validation error: %v", appErr)
	}
	if start == nil || !start.Equal(time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("start = %v, expected 2026-01-15", start)
	}
	if end == nil || !end.Equal(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("end = %v, expected 2026-03-01", end)
	}
}

func TestValidateProjectInput_OpenEnded(t *testing.T) {
	_, end, appErr := validateProjectInput("Ongoing Retainer", "", "2026-01-01", "")
	if appErr != nil {
		t.Fatalf("unexpected validation error: %v", appErr)
	}
	if end != nil {
		t.Errorf("end = %v, expected nil for an open-ended project", end)
	}
}

func TestValidateProjectInput_NameBounds(t *testing.T) {
	cases := []struct {
		name string
		ok   bool
	}{
		{"ab", false},
		{"abc", true},
		{"  ab  ", false}, // trims to 2
		{strings.Repeat("x", 100), true},
		{strings.Repeat("x", 101), false},
	}
	for _, tc := range cases {
		_, _, appErr := validateProjectInput(tc.name, "", "2026-01-01", "")
		if tc.ok && appErr != nil {
			t.Errorf("name %q rejected: %v", tc.name, appErr)
		}
		if !tc.ok {
			if appErr == nil {
				t.Errorf("name %q accepted, expected rejection", tc.name)
			} else if appErr.Field != "name" {
				t.Errorf("name %q: error field = %q, expected name", tc.name, appErr.Field)
			}
		}
	}
}

func TestValidateProjectInput_MultibyteNameBounds(t *testing.T) {
	// Two CJK characters are two characters, not six bytes.
	_, _, appErr := validateProjectInput("日本", "", "2026-01-01", "")
	if appErr == nil || appErr.Field != "name" {
		t.Errorf("2-rune name accepted, expected name error, got %v", appErr)
	}

	// A 100-rune multibyte name sits exactly on the upper bound.
	_, _, appErr = validateProjectInput(strings.Repeat("プ", 100), "", "2026-01-01", "")
	if appErr != nil {
		t.Errorf("100-rune name rejected: %v", appErr)
	}

	_, _, appErr = validateProjectInput(strings.Repeat("プ", 101), "", "2026-01-01", "")
	if appErr == nil || appErr.Field != "name" {
		t.Errorf("101-rune name accepted, expected name error, got %v", appErr)
	}
}

func TestValidateProjectInput_MultibyteDescriptionBound(t *testing.T) {
	_, _, appErr := validateProjectInput("Valid Name", strings.Repeat("説", 500), "2026-01-01", "")
	if appErr != nil {
		t.Errorf("500-rune description rejected: %v", appErr)
	}

	_, _, appErr = validateProjectInput("Valid Name", strings.Repeat("説", 501), "2026-01-01", "")
	if appErr == nil || appErr.Field != "description" {
		t.Errorf("501-rune description accepted, expected description error, got %v", appErr)
	}
}

func TestValidateProjectInput_DescriptionTooLong(t *testing.T) {
	_, _, appErr := validateProjectInput("Valid Name", strings.Repeat("d", 501), "2026-01-01", "")
	if appErr == nil || appErr.Field != "description" {
		t.Errorf("expected description validation error, got %v", appErr)
	}
}

func TestValidateProjectInput_EndBeforeStart(t *testing.T) {
	_, _, appErr := validateProjectInput("Valid Name", "", "2026-02-01", "2026-01-31")
	if appErr == nil || appErr.Field != "end_date" {
		t.Errorf("expected end_date validation error, got %v", appErr)
	}
	if appErr != nil && appErr.HTTPStatus != 422 {
		t.Errorf("status = %d, expected 422", appErr.HTTPStatus)
	}
}

func TestValidateProjectInput_EndEqualsStart(t *testing.T) {
	_, _, appErr := validateProjectInput("One Day Sprint", "", "2026-02-01", "2026-02-01")
	if appErr != nil {
		t.Errorf("same-day start and end should pass, got %v", appErr)
	}
}

func TestValidateProjectInput_BadDates(t *testing.T) {
	for _, tc := range []struct {
		start, end, field string
	}{
		{"01/15/2026", "", "start_date"},
		{"2026-01-15", "soon", "end_date"},
		{"", "", "start_date"},
	} {
		_, _, appErr := validateProjectInput("Valid Name", "", tc.start, tc.end)
		if appErr == nil || appErr.Field != tc.field {
			t.Errorf("start=%q end=%q: got %v, expected %s error", tc.start, tc.end, appErr, tc.field)
		}
	}
}
