package services

import (
	"fmt"
	"math"
	"time"

	"availability-scraper/models"
	"availability-scraper/scraper/calendar"
	"availability-scraper/utils"
)

// Aggregator deduplicates crawl output and computes per-month statistics.
type Aggregator struct {
	logger *utils.Logger
}

// NewAggregator creates an Aggregator with the given logger.
func NewAggregator(logger *utils.Logger) *Aggregator {
	return &Aggregator{logger: logger}
}

// Dedupe collapses records sharing the same (date, availability) pair.
// First occurrence wins and input order is preserved. The key ignores
// price on purpose: a stuck calendar re-captures the same month, and the
// first sighting of a date is the one kept.
func (a *Aggregator) Dedupe(records []*models.AvailabilityRecord) []*models.AvailabilityRecord {
	seen := make(map[string]struct{}, len(records))
	out := make([]*models.AvailabilityRecord, 0, len(records))

	for _, r := range records {
		key := fmt.Sprintf("%s_%t", r.Date, r.Available)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, r)
	}

	if len(out) < len(records) {
		a.logger.Info("[aggregate] Duplicates removed: %d → %d records", len(records), len(out))
	}
	return out
}

// GroupByMonth groups records under their human-readable month label,
// reconstructing the label from the date when a record carries none, and
// computes the per-group statistics.
func (a *Aggregator) GroupByMonth(records []*models.AvailabilityRecord) map[string]*models.MonthAggregate {
	groups := make(map[string]*models.MonthAggregate)

	for _, r := range records {
		label := r.MonthLabel
		if label == "" {
			label = calendar.LabelForDate(r.Date)
		}

		g, ok := groups[label]
		if !ok {
			g = &models.MonthAggregate{Label: label}
			groups[label] = g
		}

		g.Records = append(g.Records, r)
		g.TotalDates++
		if r.Available {
			g.AvailableDates++
		} else {
			g.UnavailableDates++
		}
	}

	for _, g := range groups {
		computeStats(g)
	}
	return groups
}

// BuildReport assembles the delivery payload from already-deduplicated
// records.
func (a *Aggregator) BuildReport(records []*models.AvailabilityRecord, monthsCaptured int, runID string) *models.Report {
	summary := models.ReportSummary{
		TotalDates:     len(records),
		MonthsCaptured: monthsCaptured,
	}
	for _, r := range records {
		if r.Available {
			summary.AvailableDates++
		} else {
			summary.UnavailableDates++
		}
	}

	return &models.Report{
		Timestamp: time.Now().Format(time.RFC3339),
		RunID:     runID,
		Summary:   summary,
		Records:   records,
		ByMonth:   a.GroupByMonth(records),
	}
}

// computeStats fills min/max/mean for both price tiers over the available,
// positively-priced records of a group. A tier with no such records keeps
// nil min/max and a zero mean.
func computeStats(g *models.MonthAggregate) {
	var adultSum, childSum float64
	var adultCount, childCount int

	for _, r := range g.Records {
		if !r.Available {
			continue
		}
		if r.AdultPrice > 0 {
			adultSum += r.AdultPrice
			adultCount++
			updateBounds(&g.AdultMin, &g.AdultMax, r.AdultPrice)
		}
		if r.ChildPrice > 0 {
			childSum += r.ChildPrice
			childCount++
			updateBounds(&g.ChildMin, &g.ChildMax, r.ChildPrice)
		}
	}

	if adultCount > 0 {
		g.AdultMean = round2(adultSum / float64(adultCount))
	}
	if childCount > 0 {
		g.ChildMean = round2(childSum / float64(childCount))
	}
}

func updateBounds(lo, hi **float64, value float64) {
	if *lo == nil || value < **lo {
		v := value
		*lo = &v
	}
	if *hi == nil || value > **hi {
		v := value
		*hi = &v
	}
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
