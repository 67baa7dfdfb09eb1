package models

// DayCell holds one raw calendar day as read from the rendered widget,
// before any date context is attached.
type DayCell struct {
	Day   int
	Price float64
	Open  bool
}

// MonthContext identifies the month a calendar view is showing.
// Month is zero-based (0 = January), matching the widget's own indexing.
type MonthContext struct {
	Month int
	Year  int
}

// AvailabilityRecord is the canonical, dated unit consumed by the
// aggregator, the webhook and storage. The JSON keys are the wire contract
// of the downstream consumer and must not change.
type AvailabilityRecord struct {
	Date       string  `json:"data"`
	AdultPrice float64 `json:"valor_adulto"`
	ChildPrice float64 `json:"valor_infantil"`
	Available  bool    `json:"disponivel"`
	MonthLabel string  `json:"mesAno,omitempty"`
}

// MonthAggregate is the per-month summary view, recomputed every cycle.
// Min/max stay null on the wire when no priced record exists for the month.
type MonthAggregate struct {
	Label            string                `json:"mes"`
	TotalDates       int                   `json:"totalDatas"`
	AvailableDates   int                   `json:"datasDisponiveis"`
	UnavailableDates int                   `json:"datasIndisponiveis"`
	AdultMin         *float64              `json:"valorAdultoMinimo"`
	AdultMax         *float64              `json:"valorAdultoMaximo"`
	AdultMean        float64               `json:"valorAdultoMedio"`
	ChildMin         *float64              `json:"valorInfantilMinimo"`
	ChildMax         *float64              `json:"valorInfantilMaximo"`
	ChildMean        float64               `json:"valorInfantilMedio"`
	Records          []*AvailabilityRecord `json:"datas"`
}

// ReportSummary holds the headline counts of one crawl cycle.
type ReportSummary struct {
	TotalDates       int `json:"totalDatas"`
	MonthsCaptured   int `json:"mesesCapturados"`
	AvailableDates   int `json:"datasDisponiveis"`
	UnavailableDates int `json:"datasIndisponiveis"`
}

// Report is the full delivery payload for one crawl cycle.
type Report struct {
	Timestamp string                     `json:"timestamp"`
	RunID     string                     `json:"runId"`
	Summary   ReportSummary              `json:"resumo"`
	Records   []*AvailabilityRecord      `json:"dados"`
	ByMonth   map[string]*MonthAggregate `json:"dadosOrganizados"`
}
