package booking

import (
	"context"

	"tourbook/internal/app/dto"
	"tourbook/internal/app/queries"
)

const feePolicyKey = "booking.fee_policy"

type FeePolicyQuery struct{}

func (q FeePolicyQuery) Key() string { return feePolicyKey }

// FeePolicyHandler returns the deterministic fee table next to the ranges the
// printed policy shows customers. The ranges are looser than what the engine
// charges; keeping both visible is deliberate so staff can see the mismatch.
type FeePolicyHandler struct{}

func (h *FeePolicyHandler) Handle(ctx context.Context, q FeePolicyQuery) (dto.FeePolicy, error) {
	return dto.FeePolicy{
		Rows: []dto.FeePolicyRow{
			{Condition: "more than 10 days before departure", AppliedPercent: 15, DisplayedRange: "10-20%"},
			{Condition: "6 to 10 days before departure", AppliedPercent: 40, DisplayedRange: "30-50%"},
			{Condition: "3 to 5 days before departure", AppliedPercent: 75, DisplayedRange: "70-80%"},
			{Condition: "less than 3 days before departure", AppliedPercent: 100, DisplayedRange: "100%"},
		},
	}, nil
}

var _ queries.Handler[FeePolicyQuery, dto.FeePolicy] = (*FeePolicyHandler)(nil)
