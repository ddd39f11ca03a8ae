package narrative

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/shopspring/decimal"

	"FxPulse/pkg/logger"
)

// Claude generates narrative text through the Anthropic Messages API. Every
// call degrades to the deterministic Fallback templates on error, so callers
// always receive usable prose.
type Claude struct {
	client    anthropic.Client
	model     string
	maxTokens int64
	timeout   time.Duration
	fallback  *Fallback
	log       *logger.Logger
}

// NewClaude creates the model-backed narrative writer.
func NewClaude(apiKey, model string, maxTokens int64, timeout time.Duration, log *logger.Logger) *Claude {
	return &Claude{
		client:    anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:     model,
		maxTokens: maxTokens,
		timeout:   timeout,
		fallback:  NewFallback(),
		log:       log,
	}
}

func (c *Claude) Evaluate(ctx context.Context, currentRate, breakEvenRate, targetRate, targetMarginRate decimal.Decimal) string {
	current, _ := currentRate.Float64()
	breakEven, _ := breakEvenRate.Float64()
	target, _ := targetRate.Float64()
	margin, _ := targetMarginRate.Float64()

	prompt := fmt.Sprintf(`You are an exchange-rate analyst for a manufacturing company.
Assess the current rate position and whether placing orders now is advisable.

- Current rate: %.1f KRW/USD
- Break-even rate: %.1f KRW/USD
- Target-margin rate: %.1f KRW/USD
- Target margin: %.1f%%

Answer concisely in 3-4 sentences covering:
1. Whether the current rate is suitable for ordering
2. The expected margin situation
3. An ordering recommendation

Rules: base every statement on the numbers above, never use markdown syntax
such as #, **, - or *, use numbered items and line breaks only, and separate
items with a blank line.`, current, breakEven, target, margin)

	text, err := c.complete(ctx, prompt)
	if err != nil {
		c.log.Warn("narrative evaluation fell back to template", logger.Error(err))
		return c.fallback.Evaluate(ctx, currentRate, breakEvenRate, targetRate, targetMarginRate)
	}
	return text
}

func (c *Claude) MonitoringStrategy(ctx context.Context, currentRate, breakEvenRate, targetRate, changeRate30Day decimal.Decimal) string {
	current, _ := currentRate.Float64()
	breakEven, _ := breakEvenRate.Float64()
	target, _ := targetRate.Float64()
	change, _ := changeRate30Day.Float64()

	prompt := fmt.Sprintf(`You are a currency-risk manager for a manufacturing company.
Propose a monitoring strategy for the situation below.

- Current rate: %.1f KRW/USD
- Break-even rate: %.1f KRW/USD
- Target-margin rate: %.1f KRW/USD
- 30-day rate change: %.2f%%

Propose exactly three items:
1. A rate watch point that should trigger an order review
2. A hedging approach for the current trend
3. Inventory advice for the 30-day holding period

Rules: base every statement on the numbers above, never use markdown syntax
such as #, **, - or *, use numbered items and line breaks only, and separate
items with a blank line.`, current, breakEven, target, change)

	text, err := c.complete(ctx, prompt)
	if err != nil {
		c.log.Warn("monitoring strategy fell back to template", logger.Error(err))
		return c.fallback.MonitoringStrategy(ctx, currentRate, breakEvenRate, targetRate, changeRate30Day)
	}
	return text
}

func (c *Claude) FinalReport(ctx context.Context, summaryJSON, analysisJSON string) string {
	prompt := fmt.Sprintf(`You are a financial analyst explaining a company's cost,
currency and margin structure. The OUTPUT DATA below comes from a real-time
profit and loss analysis system. Write a professional report covering the cost
structure, the exchange-rate impact, the margin position, and whether the
margin target is met.

[OUTPUT DATA]
Rate summary (JSON): %s
Full analysis (JSON): %s

[REPORT SECTIONS]
1. Summary
2. Cost structure analysis
3. Margin analysis (current vs target)
4. Risks and improvement points
5. Conclusion

Rules: base every statement on the data above, never invent figures, never use
markdown syntax such as #, **, - or *, and separate sections with a blank line.`,
		summaryJSON, analysisJSON)

	text, err := c.complete(ctx, prompt)
	if err != nil {
		c.log.Warn("final report fell back to template", logger.Error(err))
		return c.fallback.FinalReport(ctx, summaryJSON, analysisJSON)
	}
	return text
}

func (c *Claude) complete(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: c.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("messages api: %w", err)
	}

	var b strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("empty completion")
	}
	return b.String(), nil
}
