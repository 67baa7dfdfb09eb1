package main

import (
	"os"
	"time"

	"github.com/google/uuid"

	"availability-scraper/config"
	"availability-scraper/delivery"
	"availability-scraper/scraper/calendar"
	"availability-scraper/services"
	"availability-scraper/storage"
	"availability-scraper/utils"
)

func main() {
	logger := utils.NewLogger()
	cfg := config.Load()

	logger.Info("=== Park Availability Scraping Service starting ===")
	logger.Info("Config — months: %d | retries: %d | interval: %dh | report files: %t | postgres: %t",
		cfg.MonthsToCapture, cfg.MaxRetries, cfg.IntervalHours, cfg.ReportFilesEnabled, cfg.PostgresEnabled)

	var reportSink storage.ReportSink
	if cfg.ReportFilesEnabled {
		writer, err := storage.NewReportWriter(cfg.ReportDir, logger)
		if err != nil {
			logger.Error("Failed to create report writer: %v", err)
			os.Exit(1)
		}
		reportSink = writer
	}

	var recordStore storage.RecordStore
	if cfg.PostgresEnabled {
		pgWriter, err := storage.NewPostgresWriter(cfg.DSN())
		if err != nil {
			logger.Error("Failed to connect to PostgreSQL: %v", err)
			os.Exit(1)
		}
		defer pgWriter.Close()
		recordStore = pgWriter
	}

	webhook := delivery.NewWebhookClient(cfg.WebhookURL, logger)
	aggregator := services.NewAggregator(logger)

	runCycle(cfg, logger, aggregator, webhook, reportSink, recordStore)

	if cfg.RunOnce {
		return
	}

	interval := time.Duration(cfg.IntervalHours) * time.Hour
	logger.Info("Next cycle in %v", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for range ticker.C {
		runCycle(cfg, logger, aggregator, webhook, reportSink, recordStore)
		logger.Info("Next cycle in %v", interval)
	}
}

// runCycle performs one full crawl-aggregate-deliver pass. A setup failure
// aborts the cycle but never the process; the scheduler simply tries again
// on the next tick.
func runCycle(
	cfg *config.Config,
	logger *utils.Logger,
	aggregator *services.Aggregator,
	webhook *delivery.WebhookClient,
	reportSink storage.ReportSink,
	recordStore storage.RecordStore,
) {
	runID := uuid.New().String()[:8]
	logger.Info("[run %s] Starting crawl cycle", runID)

	crawler := calendar.New(cfg, logger)
	records, captured, err := crawler.Run()
	if err != nil {
		logger.Error("[run %s] Crawl failed: %v", runID, err)
		return
	}

	deduped := aggregator.Dedupe(records)
	report := aggregator.BuildReport(deduped, captured, runID)

	logger.Info("[run %s] Summary — dates: %d | months: %d | available: %d | unavailable: %d",
		runID, report.Summary.TotalDates, report.Summary.MonthsCaptured,
		report.Summary.AvailableDates, report.Summary.UnavailableDates)

	if reportSink != nil {
		if err := reportSink.WriteReport(report); err != nil {
			logger.Error("[run %s] Report file write failed: %v", runID, err)
		}
	}

	if recordStore != nil {
		if err := recordStore.Write(deduped); err != nil {
			logger.Error("[run %s] PostgreSQL write failed: %v", runID, err)
		} else {
			logger.Info("[run %s] Records stored in PostgreSQL (table: availability)", runID)
		}
	}

	// Delivery problems are already logged in detail by the client.
	_ = webhook.Send(report)

	logger.Info("[run %s] Cycle complete", runID)
}
