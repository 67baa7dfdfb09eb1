package delivery

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"availability-scraper/models"
	"availability-scraper/utils"
)

// WebhookClient delivers crawl reports to the downstream consumer.
type WebhookClient struct {
	client *resty.Client
	url    string
	logger *utils.Logger
}

// NewWebhookClient creates a client for the given endpoint.
func NewWebhookClient(url string, logger *utils.Logger) *WebhookClient {
	client := resty.New()
	client.SetTimeout(30 * time.Second)
	client.SetHeader("Content-Type", "application/json")

	return &WebhookClient{client: client, url: url, logger: logger}
}

// Send POSTs the report as JSON. 200/201 count as delivered; anything else
// is logged with detail and returned, but callers treat it as non-fatal —
// a failed delivery never aborts a run.
func (w *WebhookClient) Send(r *models.Report) error {
	w.logger.Info("[webhook] Sending report (%d records) to %s", len(r.Records), w.url)

	resp, err := w.client.R().SetBody(r).Post(w.url)
	if err != nil {
		w.logger.Error("[webhook] Delivery failed: %v", err)
		return fmt.Errorf("webhook: post: %w", err)
	}

	status := resp.StatusCode()
	if status == http.StatusOK || status == http.StatusCreated {
		w.logger.Info("[webhook] Report delivered — status %d", status)
		return nil
	}

	w.logger.Error("[webhook] Unexpected response %d: %s", status, truncateBody(resp.String()))
	return fmt.Errorf("webhook: unexpected status %d", status)
}

func truncateBody(s string) string {
	const limit = 300
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}
