package calendar

import (
	"fmt"
	"time"

	"availability-scraper/models"
	"availability-scraper/pricing"
	"availability-scraper/utils"
)

// Normalizer turns raw day cells into dated availability records.
type Normalizer struct {
	tiers  pricing.TierTable
	logger *utils.Logger
}

// NewNormalizer creates a Normalizer using the given price tier table.
func NewNormalizer(tiers pricing.TierTable, logger *utils.Logger) *Normalizer {
	return &Normalizer{tiers: tiers, logger: logger}
}

// Normalize builds full records from the month context and its cells.
// A cell whose constructed date is invalid falls back to today instead of
// being dropped — downstream a wrong date is judged less harmful than a
// missing one. Records dated strictly before today are filtered out.
func (n *Normalizer) Normalize(mc models.MonthContext, cells []models.DayCell, today time.Time) []*models.AvailabilityRecord {
	dayStart := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, today.Location())
	label := Label(mc)

	var records []*models.AvailabilityRecord
	for _, cell := range cells {
		date, ok := buildDate(mc, cell.Day, today.Location())
		if !ok {
			n.logger.Warn("[normalize] invalid date (%d, month %d, day %d) — falling back to today",
				mc.Year, mc.Month, cell.Day)
			date = dayStart
		}

		if date.Before(dayStart) {
			continue
		}

		records = append(records, &models.AvailabilityRecord{
			Date:       FormatDate(date.Year(), int(date.Month())-1, date.Day()),
			AdultPrice: cell.Price,
			ChildPrice: n.tiers.Lookup(cell.Price),
			Available:  cell.Open,
			MonthLabel: label,
		})
	}
	return records
}

// buildDate constructs the calendar date for a cell, reporting whether the
// inputs formed a real date. time.Date normalizes overflow (Feb 30 → Mar
// 2), so a round-trip mismatch marks the input invalid.
func buildDate(mc models.MonthContext, day int, loc *time.Location) (time.Time, bool) {
	if mc.Month < 0 || mc.Month > 11 || day < 1 || day > 31 || mc.Year < 1 {
		return time.Time{}, false
	}
	date := time.Date(mc.Year, time.Month(mc.Month+1), day, 0, 0, 0, 0, loc)
	if date.Day() != day || int(date.Month())-1 != mc.Month || date.Year() != mc.Year {
		return time.Time{}, false
	}
	return date, true
}

// FormatDate renders (year, zero-based month, day) as "YYYY-MM-DD".
func FormatDate(year, month, day int) string {
	return fmt.Sprintf("%04d-%02d-%02d", year, month+1, day)
}
