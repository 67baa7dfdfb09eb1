package calendar

import (
	"math"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func docFromHTML(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}
	return doc
}

const primaryMarkup = `
<div id="calendar-1">
  <div class="daysOpen"><span>17</span><div class="spanValue"><span>150</span><span class="centavos">00</span></div></div>
  <div class="daysOpen"><span>18</span><div class="spanValue"><span>105</span><span class="centavos">50</span></div></div>
  <div class="daysOpen"><span>19</span></div>
  <div class="daysOpen"><span>--</span><div class="spanValue"><span>95</span><span class="centavos">00</span></div></div>
  <div class="daysOpen"><span>32</span><div class="spanValue"><span>95</span><span class="centavos">00</span></div></div>
  <div class="daysClose"><span>5</span></div>
  <div class="daysClose"><span></span></div>
</div>`

func TestExtractPrimaryMarkup(t *testing.T) {
	open, closed := ExtractDayCells(docFromHTML(t, primaryMarkup))

	if len(open) != 3 {
		t.Fatalf("open cells: got %d, want 3 (bad day numbers must be discarded)", len(open))
	}
	if open[0].Day != 17 || open[0].Price != 150.00 {
		t.Errorf("open[0] = %+v; want day 17 price 150.00", open[0])
	}
	if open[1].Day != 18 || open[1].Price != 105.50 {
		t.Errorf("open[1] = %+v; want day 18 price 105.50", open[1])
	}
	// Missing price group renders as 0, the cell is kept.
	if open[2].Day != 19 || open[2].Price != 0 {
		t.Errorf("open[2] = %+v; want day 19 price 0", open[2])
	}

	if len(closed) != 1 {
		t.Fatalf("closed cells: got %d, want 1", len(closed))
	}
	if closed[0].Day != 5 || closed[0].Price != 0 || closed[0].Open {
		t.Errorf("closed[0] = %+v; want day 5 price 0 closed", closed[0])
	}
}

const altMarkup = `
<form id="calendar">
  <div class="dateValue"><span class="dateValueDay">8</span><span class="dateValuePrice">R$105,50</span></div>
  <div class="dateValue"><span class="dateValueDay">9</span><span class="dateValuePrice"> R$95.00</span></div>
  <div class="dateValue"><span class="dateValueDay">10</span><span class="dateValuePrice">sold out</span></div>
  <div class="dateValue disabled"><span class="dateValueDay">11</span></div>
</form>`

func TestExtractAlternateMarkup(t *testing.T) {
	open, closed := ExtractDayCells(docFromHTML(t, altMarkup))

	if len(open) != 2 {
		t.Fatalf("open cells: got %d, want 2 (NaN-priced cell must be discarded)", len(open))
	}
	if open[0].Day != 8 || open[0].Price != 105.50 {
		t.Errorf("open[0] = %+v; want day 8 price 105.50", open[0])
	}
	if open[1].Day != 9 || open[1].Price != 95.00 {
		t.Errorf("open[1] = %+v; want day 9 price 95.00", open[1])
	}

	if len(closed) != 1 || closed[0].Day != 11 {
		t.Fatalf("closed cells: got %+v, want one cell for day 11", closed)
	}
}

func TestExtractEmptyDocument(t *testing.T) {
	open, closed := ExtractDayCells(docFromHTML(t, `<div><p>maintenance page</p></div>`))
	if len(open) != 0 || len(closed) != 0 {
		t.Errorf("expected empty slices for a page without calendar cells, got %d open %d closed",
			len(open), len(closed))
	}
}

func TestParsePriceText(t *testing.T) {
	tests := []struct {
		text string
		want float64
	}{
		{"R$150.00", 150.00},
		{" R$95.00", 95.00},
		{"R$105,50", 105.50},
		{"", 0},
		{"  ", 0},
		{"R$ 1200.00", 1200.00},
	}

	for _, tt := range tests {
		got := ParsePriceText(tt.text)
		if got != tt.want {
			t.Errorf("ParsePriceText(%q) = %.2f; want %.2f", tt.text, got, tt.want)
		}
	}
}

func TestParsePriceTextNonNumericIsNaN(t *testing.T) {
	for _, text := range []string{"empty", "sold out", "R$abc"} {
		got := ParsePriceText(text)
		if !math.IsNaN(got) {
			t.Errorf("ParsePriceText(%q) = %.2f; want NaN", text, got)
		}
	}
}
