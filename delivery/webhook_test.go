package delivery

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"availability-scraper/models"
	"availability-scraper/utils"
)

func testReport() *models.Report {
	return &models.Report{
		Timestamp: "2025-08-31T12:00:00Z",
		RunID:     "test",
		Summary:   models.ReportSummary{TotalDates: 1, AvailableDates: 1, MonthsCaptured: 1},
		Records: []*models.AvailabilityRecord{
			{Date: "2025-07-17", AdultPrice: 158, ChildPrice: 75, Available: true, MonthLabel: "Julho 2025"},
		},
	}
}

func TestSendSuccess(t *testing.T) {
	var received models.Report
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s; want POST", r.Method)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewWebhookClient(server.URL, utils.NewLogger())
	if err := client.Send(testReport()); err != nil {
		t.Fatalf("Send: %v", err)
	}

	if received.Summary.TotalDates != 1 {
		t.Errorf("delivered summary lost data: %+v", received.Summary)
	}
	if len(received.Records) != 1 || received.Records[0].Date != "2025-07-17" {
		t.Errorf("delivered records wrong: %+v", received.Records)
	}
}

func TestSendAcceptsCreated(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	client := NewWebhookClient(server.URL, utils.NewLogger())
	if err := client.Send(testReport()); err != nil {
		t.Fatalf("Send on 201: %v", err)
	}
}

func TestSendNon2xxIsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "go away", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewWebhookClient(server.URL, utils.NewLogger())
	if err := client.Send(testReport()); err == nil {
		t.Fatal("expected error for 500 response")
	}
}

func TestSendTransportErrorIsError(t *testing.T) {
	client := NewWebhookClient("http://127.0.0.1:1/unreachable", utils.NewLogger())
	if err := client.Send(testReport()); err == nil {
		t.Fatal("expected error for unreachable endpoint")
	}
}
