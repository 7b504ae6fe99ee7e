package metrics

import (
	"math"
	"strings"
	"time"

	"github.com/rovermark/agency_dashboard_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// strikingDistanceFactor is the number of months of recurring commitment an
// account's balance must cover to count as on-track. Policy constant; changing
// it changes which accounts are flagged at-risk.
var strikingDistanceFactor = decimal.RequireFromString("1.5")

// daysPerMonth is the fixed month approximation used for tenure. Downstream
// consumers expect this numeric behavior, not calendar-month arithmetic.
const daysPerMonth = 30.44

var hundred = decimal.NewFromInt(100)

// ParseNumber normalizes a points-style numeric string: thousands-separator
// commas and surrounding whitespace are stripped before parsing. Unparseable
// or empty input yields an invalid NullDecimal, never an error.
func ParseNumber(raw string) decimal.NullDecimal {
	cleaned := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if cleaned == "" {
		return decimal.NullDecimal{}
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}
}

// ParseMoney normalizes a currency-formatted string ("$1,000.50") by dropping
// every rune except digits, sign, and the decimal point.
func ParseMoney(raw string) decimal.NullDecimal {
	var b strings.Builder
	for _, r := range raw {
		if (r >= '0' && r <= '9') || r == '-' || r == '+' || r == '.' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return decimal.NullDecimal{}
	}
	d, err := decimal.NewFromString(b.String())
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}
}

// PointsBalance returns purchased − delivered. A missing input propagates as
// an invalid result so list/detail views render blank rather than a bogus
// number.
func PointsBalance(purchased, delivered decimal.NullDecimal) decimal.NullDecimal {
	if !purchased.Valid || !delivered.Valid {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: purchased.Decimal.Sub(delivered.Decimal), Valid: true}
}

// PointsStrikingDistance returns (purchased − delivered) − 1.5 × recurring.
func PointsStrikingDistance(purchased, delivered, recurring decimal.NullDecimal) decimal.NullDecimal {
	balance := PointsBalance(purchased, delivered)
	if !balance.Valid || !recurring.Valid {
		return decimal.NullDecimal{}
	}
	sd := balance.Decimal.Sub(strikingDistanceFactor.Mul(recurring.Decimal))
	return decimal.NullDecimal{Decimal: sd, Valid: true}
}

// StatusFor classifies a striking distance. Exactly zero is ON_TRACK; the
// boundary is ≤ 0, not < 0. An unknown striking distance yields no status.
func StatusFor(strikingDistance decimal.NullDecimal) domain.DeliveryStatus {
	if !strikingDistance.Valid {
		return ""
	}
	if strikingDistance.Decimal.Sign() <= 0 {
		return domain.DeliveryOnTrack
	}
	return domain.DeliveryOffTrack
}

// PotentialMRR returns mrr + growthInMrr.
func PotentialMRR(mrr, growth decimal.NullDecimal) decimal.NullDecimal {
	if !mrr.Valid || !growth.Valid {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: mrr.Decimal.Add(growth.Decimal), Valid: true}
}

// ClientTenureMonths approximates whole months of relationship as
// floor(ceil(|now − start| in days) / 30.44). A zero start date yields 0.
// The reference time is an explicit parameter so callers control the clock.
func ClientTenureMonths(start, now time.Time) int {
	if start.IsZero() {
		return 0
	}
	elapsed := now.Sub(start)
	if elapsed < 0 {
		elapsed = -elapsed
	}
	days := math.Ceil(elapsed.Hours() / 24)
	return int(math.Floor(days / daysPerMonth))
}

// PercentageOf returns 100 × part / total rounded half-up to the nearest
// integer, or 0 when total is zero (guards divide-by-zero).
func PercentageOf(part, total decimal.Decimal) int {
	if total.IsZero() {
		return 0
	}
	pct := part.Mul(hundred).Div(total).Round(0)
	return int(pct.IntPart())
}

// Compute derives every metric for an account from its stored fields at the
// given reference time. Derived fields are always refreshed together; there
// is no partial recompute.
func Compute(a domain.Account, now time.Time) domain.Derived {
	purchased := decimal.NullDecimal{Decimal: a.PointsPurchased, Valid: true}
	delivered := decimal.NullDecimal{Decimal: a.PointsDelivered, Valid: true}
	recurring := decimal.NullDecimal{Decimal: a.RecurringPointsAllotment, Valid: true}
	mrr := decimal.NullDecimal{Decimal: a.MRR, Valid: true}
	growth := decimal.NullDecimal{Decimal: a.GrowthInMRR, Valid: true}

	sd := PointsStrikingDistance(purchased, delivered, recurring)

	return domain.Derived{
		PointsBalance:          PointsBalance(purchased, delivered),
		PointsStrikingDistance: sd,
		Delivery:               StatusFor(sd),
		PotentialMRR:           PotentialMRR(mrr, growth),
		ClientTenureMonths:     ClientTenureMonths(a.RelationshipStartDate, now),
		PointsDeliveredPct:     PercentageOf(a.PointsDelivered, a.PointsPurchased),
	}
}
