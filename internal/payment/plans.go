package payment

import "github.com/niltonmoco5-source/The-super-bible/internal/subscription"

// Plan is a purchasable subscription tier.
type Plan struct {
	Tier     subscription.Tier
	Name     string
	Amount   string
	Currency string
	Period   string
}

var Plans = []Plan{
	{
		Tier:     subscription.TierPro,
		Name:     "Plano Pro Global",
		Amount:   "4.99",
		Currency: "EUR",
		Period:   "mês",
	},
	{
		Tier:     subscription.TierBlessed,
		Name:     "Plano Abençoado Internacional",
		Amount:   "49.90",
		Currency: "EUR",
		Period:   "ano",
	},
}

func PlanFor(tier subscription.Tier) (Plan, bool) {
	for _, p := range Plans {
		if p.Tier == tier {
			return p, true
		}
	}
	return Plan{}, false
}
