package sources

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	xhttp "FxPulse/pkg/http"
)

// Backup queries a secondary open exchange-rate API that serves the latest
// USD cross rates as {"rates": {"KRW": 1380.12, ...}}. It only knows "latest",
// so the requested date is ignored; it sits late in the fallback chain.
type Backup struct {
	url    string
	client *xhttp.Client
}

// NewBackup creates the backup API source.
func NewBackup(url string, timeout time.Duration) *Backup {
	return &Backup{
		url:    url,
		client: xhttp.NewClient(xhttp.WithTimeout(timeout)),
	}
}

func (s *Backup) Name() string { return "backup" }

type backupResponse struct {
	Rates map[string]float64 `json:"rates"`
}

func (s *Backup) Fetch(ctx context.Context, _ time.Time) (decimal.Decimal, bool, error) {
	var body backupResponse
	err := s.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    s.url,
	}, &body)
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("backup fetch: %w", err)
	}

	krw, ok := body.Rates["KRW"]
	if !ok || krw <= 0 {
		return decimal.Zero, false, fmt.Errorf("backup response has no usable KRW rate")
	}
	return decimal.NewFromFloat(krw), true, nil
}
