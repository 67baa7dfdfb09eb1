package storage

import "availability-scraper/models"

// ReportSink persists a full crawl report.
type ReportSink interface {
	WriteReport(r *models.Report) error
}

// RecordStore persists canonical availability records.
type RecordStore interface {
	Write(records []*models.AvailabilityRecord) error
	Close() error
}
