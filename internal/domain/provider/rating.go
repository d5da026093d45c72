package provider

import (
	"time"

	"github.com/opsconsole/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Rating is the single aggregate score kept per provider. It is updated,
// never deleted; the overall score is derived from the sub-scores.
type Rating struct {
	ProviderID    string          `json:"providerId"`
	Overall       decimal.Decimal `json:"overall"`
	Quality       decimal.Decimal `json:"quality"`
	Delivery      decimal.Decimal `json:"delivery"`
	Price         decimal.Decimal `json:"price"`
	Communication decimal.Decimal `json:"communication"`
	Comments      string          `json:"comments,omitempty"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// NewRating builds a rating from sub-scores, each on a 0-5 scale
func NewRating(providerID string, quality, delivery, price, communication decimal.Decimal, comments string) (*Rating, error) {
	if providerID == "" {
		return nil, shared.NewDomainError("INVALID_PROVIDER", "Provider id cannot be empty")
	}
	for _, score := range []decimal.Decimal{quality, delivery, price, communication} {
		if err := validateScore(score); err != nil {
			return nil, err
		}
	}

	r := &Rating{
		ProviderID:    providerID,
		Quality:       quality,
		Delivery:      delivery,
		Price:         price,
		Communication: communication,
		Comments:      comments,
		UpdatedAt:     time.Now(),
	}
	r.recalculateOverall()

	return r, nil
}

func (r *Rating) recalculateOverall() {
	sum := r.Quality.Add(r.Delivery).Add(r.Price).Add(r.Communication)
	r.Overall = sum.Div(decimal.NewFromInt(4)).Round(2)
}

func validateScore(score decimal.Decimal) error {
	if score.IsNegative() || score.GreaterThan(decimal.NewFromInt(5)) {
		return shared.NewDomainError("INVALID_SCORE", "Rating scores must be between 0 and 5")
	}
	return nil
}
