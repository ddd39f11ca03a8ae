package sources

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/shopspring/decimal"
)

// NaverScrape scrapes the live USD/KRW quote off the Naver Pay finance page.
// It is the freshest source available and first in the current-rate chain;
// the requested date is ignored because the page only shows "now".
type NaverScrape struct {
	url    string
	client *http.Client
}

// NewNaverScrape creates the live scrape source.
func NewNaverScrape(url string, timeout time.Duration) *NaverScrape {
	return &NaverScrape{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

func (s *NaverScrape) Name() string { return "naver" }

func (s *NaverScrape) Fetch(ctx context.Context, _ time.Time) (decimal.Decimal, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("naver request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("naver fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, false, fmt.Errorf("naver status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("naver parse html: %w", err)
	}

	today := doc.Find("p.no_today").First()
	if today.Length() == 0 {
		return decimal.Zero, false, fmt.Errorf("naver quote element not found")
	}

	var b strings.Builder
	today.Find("span").Each(func(_ int, sel *goquery.Selection) {
		if sel.HasClass("txt_won") {
			return
		}
		b.WriteString(strings.TrimSpace(sel.Text()))
	})

	raw := strings.ReplaceAll(b.String(), ",", "")
	rate, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("naver parse rate %q: %w", raw, err)
	}
	if rate.Sign() <= 0 {
		return decimal.Zero, false, fmt.Errorf("naver non-positive rate %s", rate)
	}
	return rate, true, nil
}
