package calendar

import (
	"testing"
	"time"

	"availability-scraper/models"
)

func TestParseMonthLabel(t *testing.T) {
	now := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		text      string
		wantMonth int
		wantYear  int
	}{
		{"Julho 2025", 6, 2025},
		{"Janeiro 2026", 0, 2026},
		{"Dezembro 2025", 11, 2025},
		{"Março 2026", 2, 2026},
		{"  Mês atual: Setembro de 2025  ", 8, 2025},
		{"JULHO 2025", 6, 2025},
	}

	for _, tt := range tests {
		got := ParseMonthLabel(tt.text, now)
		if got.Month != tt.wantMonth || got.Year != tt.wantYear {
			t.Errorf("ParseMonthLabel(%q) = (%d, %d); want (%d, %d)",
				tt.text, got.Month, got.Year, tt.wantMonth, tt.wantYear)
		}
	}
}

func TestParseMonthLabelFallsBackToNow(t *testing.T) {
	now := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		text      string
		wantMonth int
		wantYear  int
	}{
		{"garbage text", 2, 2025},
		{"", 2, 2025},
		{"Julho", 6, 2025},     // month only, year from now
		{"ano 2026", 2, 2026},  // year only, month from now
	}

	for _, tt := range tests {
		got := ParseMonthLabel(tt.text, now)
		if got.Month != tt.wantMonth || got.Year != tt.wantYear {
			t.Errorf("ParseMonthLabel(%q) = (%d, %d); want (%d, %d)",
				tt.text, got.Month, got.Year, tt.wantMonth, tt.wantYear)
		}
	}
}

func TestLabel(t *testing.T) {
	tests := []struct {
		mc   models.MonthContext
		want string
	}{
		{models.MonthContext{Month: 6, Year: 2025}, "Julho 2025"},
		{models.MonthContext{Month: 0, Year: 2026}, "Janeiro 2026"},
		{models.MonthContext{Month: 11, Year: 2025}, "Dezembro 2025"},
	}

	for _, tt := range tests {
		if got := Label(tt.mc); got != tt.want {
			t.Errorf("Label(%+v) = %q; want %q", tt.mc, got, tt.want)
		}
	}
}

func TestLabelForDate(t *testing.T) {
	if got := LabelForDate("2025-07-17"); got != "Julho 2025" {
		t.Errorf("LabelForDate(2025-07-17) = %q; want %q", got, "Julho 2025")
	}
	if got := LabelForDate("not-a-date"); got != "" {
		t.Errorf("LabelForDate(not-a-date) = %q; want empty", got)
	}
}
