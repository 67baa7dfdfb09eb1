package calendar

import (
	"encoding/json"
	"strings"
	"time"

	"availability-scraper/models"
)

// ScriptEntry mirrors one item of the widget's calendarArray page global,
// which holds the full loaded date range rather than just the displayed
// month.
type ScriptEntry struct {
	Date  string      `json:"Date"`
	Value json.Number `json:"Value"`
}

// FromScriptData builds records from the page's script data, keeping only
// entries that belong to the displayed month and are dated today or later.
// The script global only lists purchasable dates, so every record is
// available. Entries with unparsable dates or values are dropped.
func (n *Normalizer) FromScriptData(mc models.MonthContext, entries []ScriptEntry, today time.Time) []*models.AvailabilityRecord {
	dayStart := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, today.Location())
	label := Label(mc)

	var records []*models.AvailabilityRecord
	for _, entry := range entries {
		datePart, _, _ := strings.Cut(entry.Date, "T")
		date, err := time.ParseInLocation("2006-01-02", datePart, today.Location())
		if err != nil {
			n.logger.Debug("[normalize] script entry with bad date %q dropped", entry.Date)
			continue
		}
		if date.Year() != mc.Year || int(date.Month())-1 != mc.Month {
			continue
		}
		if date.Before(dayStart) {
			continue
		}

		adult, err := entry.Value.Float64()
		if err != nil {
			n.logger.Debug("[normalize] script entry %s with bad value %q dropped", datePart, entry.Value)
			continue
		}

		records = append(records, &models.AvailabilityRecord{
			Date:       datePart,
			AdultPrice: adult,
			ChildPrice: n.tiers.Lookup(adult),
			Available:  true,
			MonthLabel: label,
		})
	}
	return records
}
