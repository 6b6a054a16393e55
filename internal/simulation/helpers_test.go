package simulation

import (
	"errors"
	"time"

	"github.com/guimove/ptufit/internal/model"
)

func asConfigError(err error, target **model.ConfigError) bool {
	return errors.As(err, target)
}

func asDataError(err error, target **model.DataError) bool {
	return errors.As(err, target)
}

// testScheme is a monthly scheme at $260/unit with no discount.
func testScheme() model.PricingScheme {
	return model.PricingScheme{
		Name:          model.MonthlyReservation,
		UnitCost:      260,
		BillingPeriod: model.BillMonthly,
	}
}

// testPricing is gpt-4.1-style PAYGO pricing: weight 4.
func testPricing() model.ModelPricing {
	return model.ModelPricing{
		Model:            "gpt-4.1",
		InputPricePer1K:  0.002,
		OutputPricePer1K: 0.008,
	}
}

func testRequests() []model.Request {
	base := time.Date(2025, 8, 18, 0, 0, 0, 0, time.UTC)
	return []model.Request{
		{Timestamp: base, InputTokens: 1000, OutputTokens: 200},
		{Timestamp: base.Add(20 * time.Second), InputTokens: 500, OutputTokens: 100},
		{Timestamp: base.Add(time.Minute), InputTokens: 2000, OutputTokens: 800},
		{Timestamp: base.Add(3 * time.Minute), InputTokens: 50, OutputTokens: 10},
		{Timestamp: base.Add(48 * time.Hour), InputTokens: 700, OutputTokens: 300},
	}
}
