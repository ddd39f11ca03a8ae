package models

import "github.com/shopspring/decimal"

// Requests for the analysis HTTP endpoints. Defined in domain for consistency
// and reuse across handlers.

// CompanyInputRequest is the JSON body of the analyze/dashboard/report
// endpoints. Domain constraints live in the validate tags so a bad request is
// rejected with every violated field listed.
type CompanyInputRequest struct {
	MaterialCostUsd  float64 `json:"materialCostUsd" validate:"required,gt=0"`
	MaterialRatio    float64 `json:"materialRatio" validate:"required,gt=0,lte=100"`
	SellingPriceKrw  float64 `json:"sellingPriceKrw" validate:"required,gt=0"`
	TargetMarginRate float64 `json:"targetMarginRate" validate:"gte=0,lte=100"`
	OtherCostsKrw    float64 `json:"otherCostsKrw" validate:"gte=0"`
}

// ToInput converts the validated request into fixed-point company inputs.
func (r *CompanyInputRequest) ToInput() CompanyInput {
	return CompanyInput{
		MaterialCostUsd:  decimal.NewFromFloat(r.MaterialCostUsd),
		MaterialRatio:    decimal.NewFromFloat(r.MaterialRatio),
		SellingPriceKrw:  decimal.NewFromFloat(r.SellingPriceKrw),
		TargetMarginRate: decimal.NewFromFloat(r.TargetMarginRate),
		OtherCostsKrw:    decimal.NewFromFloat(r.OtherCostsKrw),
	}
}

// HistoryRequest selects the trailing window of the historical series.
type HistoryRequest struct {
	Days int `query:"days" json:"days" default:"30" validate:"gte=1,lte=90"`
}
