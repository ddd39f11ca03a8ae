package sources

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"FxPulse/internal/domain/models"
	xhttp "FxPulse/pkg/http"
)

// KoreaExim fetches the daily published USD base rate from the Korea
// Export-Import bank open API. The API publishes nothing on weekends and
// holidays; those days come back as absent.
type KoreaExim struct {
	url    string
	apiKey string
	client *xhttp.Client
}

// NewKoreaExim creates the institutional API source.
func NewKoreaExim(url, apiKey string, timeout time.Duration) *KoreaExim {
	return &KoreaExim{
		url:    url,
		apiKey: apiKey,
		client: xhttp.NewClient(xhttp.WithTimeout(timeout)),
	}
}

func (s *KoreaExim) Name() string { return "koreaexim" }

type eximRow struct {
	CurUnit  string `json:"cur_unit"`
	DealBasR string `json:"deal_bas_r"`
}

// Fetch returns the USD rate published for the given date, or absent when the
// API has no row for it (or the call failed in any way).
func (s *KoreaExim) Fetch(ctx context.Context, date time.Time) (decimal.Decimal, bool, error) {
	var rows []eximRow
	err := s.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    s.url,
		QueryParams: map[string][]string{
			"authkey":    {s.apiKey},
			"searchdate": {date.Format("20060102")},
			"data":       {"AP01"},
		},
	}, &rows)
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("koreaexim fetch: %w", err)
	}

	for _, row := range rows {
		if row.CurUnit != models.USD {
			continue
		}
		rate, err := decimal.NewFromString(strings.ReplaceAll(row.DealBasR, ",", ""))
		if err != nil {
			return decimal.Zero, false, fmt.Errorf("koreaexim parse %q: %w", row.DealBasR, err)
		}
		if rate.Sign() <= 0 {
			return decimal.Zero, false, fmt.Errorf("koreaexim non-positive rate %s", rate)
		}
		return rate, true, nil
	}

	// No USD row means the bank published nothing for that day.
	return decimal.Zero, false, nil
}
