package subscription

import "time"

type Tier string

const (
	TierTrial   Tier = "trial"
	TierPro     Tier = "pro"
	TierBlessed Tier = "blessed"
)

// TrialDays is the length of the free trial, counted from the first time a
// chat talks to the bot.
const TrialDays = 3

// Info is the subscription record, persisted as one JSON slot per chat.
// StartDate is epoch milliseconds and is written once; IsExpired is derived
// and recomputed on every evaluation cycle.
type Info struct {
	Tier      Tier  `json:"tier"`
	StartDate int64 `json:"startDate"`
	IsExpired bool  `json:"isExpired"`
}

func NewTrial(now time.Time) Info {
	return Info{
		Tier:      TierTrial,
		StartDate: now.UnixMilli(),
		IsExpired: false,
	}
}

// Valid reports whether a decoded record is usable. Anything else is treated
// as "no record" and replaced with a fresh trial.
func (i Info) Valid() bool {
	switch i.Tier {
	case TierTrial, TierPro, TierBlessed:
	default:
		return false
	}
	return i.StartDate > 0
}

// Decide recomputes the expiry flag. It is pure: the caller persists the
// returned info and performs the paywall navigation when wantPaywall is true.
func Decide(info Info, now time.Time) (Info, bool) {
	if info.Tier != TierTrial {
		info.IsExpired = false
		return info, false
	}

	elapsed := now.UnixMilli() - info.StartDate
	if elapsed >= int64(TrialDays)*24*int64(time.Hour/time.Millisecond) {
		info.IsExpired = true
		return info, true
	}

	info.IsExpired = false
	return info, false
}
