package metrics

import (
	"testing"
	"time"

	"github.com/rovermark/agency_dashboard_app/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func num(s string) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: decimal.RequireFromString(s), Valid: true}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		want  string
		valid bool
	}{
		{"plain integer", "150", "150", true},
		{"comma formatted", "1,250", "1250", true},
		{"comma formatted large", "12,345,678", "12345678", true},
		{"decimal value", "42.5", "42.5", true},
		{"surrounding space", "  300 ", "300", true},
		{"not a number", "not-a-number", "", false},
		{"empty", "", "", false},
		{"whitespace only", "   ", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseNumber(tt.raw)
			assert.Equal(t, tt.valid, got.Valid)
			if tt.valid {
				assert.True(t, got.Decimal.Equal(decimal.RequireFromString(tt.want)), "got %s", got.Decimal)
			}
		})
	}
}

func TestParseMoney(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		want  string
		valid bool
	}{
		{"dollar with comma", "$1,000", "1000", true},
		{"dollar with cents", "$250.75", "250.75", true},
		{"negative", "-$500", "-500", true},
		{"plain number", "1250", "1250", true},
		{"currency word", "USD", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseMoney(tt.raw)
			assert.Equal(t, tt.valid, got.Valid)
			if tt.valid {
				assert.True(t, got.Decimal.Equal(decimal.RequireFromString(tt.want)), "got %s", got.Decimal)
			}
		})
	}
}

func TestPointsBalance(t *testing.T) {
	got := PointsBalance(num("150"), num("40"))
	require.True(t, got.Valid)
	assert.True(t, got.Decimal.Equal(decimal.RequireFromString("110")))

	// An unparseable purchased value must degrade to absent, not NaN.
	got = PointsBalance(ParseNumber("not-a-number"), num("10"))
	assert.False(t, got.Valid)

	got = PointsBalance(num("10"), decimal.NullDecimal{})
	assert.False(t, got.Valid)
}

func TestPointsStrikingDistance(t *testing.T) {
	got := PointsStrikingDistance(num("150"), num("0"), num("100"))
	require.True(t, got.Valid)
	assert.True(t, got.Decimal.IsZero(), "150 - 1.5*100 should be exactly zero, got %s", got.Decimal)

	got = PointsStrikingDistance(num("150"), num("0"), num("99"))
	require.True(t, got.Valid)
	assert.True(t, got.Decimal.Equal(decimal.RequireFromString("1.5")))

	got = PointsStrikingDistance(num("150"), num("0"), decimal.NullDecimal{})
	assert.False(t, got.Valid)
}

func TestStatusForBoundary(t *testing.T) {
	// Exactly zero is ON_TRACK; the ≤ 0 boundary is policy, not rounding.
	assert.Equal(t, domain.DeliveryOnTrack, StatusFor(num("0")))
	assert.Equal(t, domain.DeliveryOnTrack, StatusFor(num("-25")))
	assert.Equal(t, domain.DeliveryOffTrack, StatusFor(num("0.01")))
	assert.Equal(t, domain.DeliveryOffTrack, StatusFor(num("1.5")))
	assert.Equal(t, domain.DeliveryStatus(""), StatusFor(decimal.NullDecimal{}))
}

func TestStrikingDistanceStatusAgreement(t *testing.T) {
	// Status must always agree with the sign of the freshly computed distance.
	cases := []struct {
		purchased, delivered, recurring string
		want                            domain.DeliveryStatus
	}{
		{"150", "0", "100", domain.DeliveryOnTrack},  // exactly zero
		{"150", "0", "99", domain.DeliveryOffTrack},  // +1.5
		{"300", "100", "100", domain.DeliveryOnTrack},
		{"100", "90", "50", domain.DeliveryOffTrack},
		{"0", "0", "0", domain.DeliveryOnTrack},
	}
	for _, c := range cases {
		sd := PointsStrikingDistance(num(c.purchased), num(c.delivered), num(c.recurring))
		assert.Equal(t, c.want, StatusFor(sd),
			"purchased=%s delivered=%s recurring=%s distance=%s", c.purchased, c.delivered, c.recurring, sd.Decimal)
	}
}

func TestPotentialMRR(t *testing.T) {
	got := PotentialMRR(ParseMoney("$1,000"), ParseMoney("$250"))
	require.True(t, got.Valid)
	assert.True(t, got.Decimal.Equal(decimal.RequireFromString("1250")))

	got = PotentialMRR(ParseMoney("free"), ParseMoney("$250"))
	assert.False(t, got.Valid)
}

func TestClientTenureMonths(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	// 91.32 days before now: ceil -> 92 days, floor(92/30.44) = 3.
	start := now.Add(-time.Duration(91.32 * 24 * float64(time.Hour)))
	assert.Equal(t, 3, ClientTenureMonths(start, now))

	// Just under one month.
	assert.Equal(t, 0, ClientTenureMonths(now.AddDate(0, 0, -30), now))
	// One month boundary: 31 days / 30.44 -> 1.
	assert.Equal(t, 1, ClientTenureMonths(now.AddDate(0, 0, -31), now))
	// A year of days.
	assert.Equal(t, 11, ClientTenureMonths(now.AddDate(0, 0, -365), now))
	// Zero start date means tenure unknown -> 0.
	assert.Equal(t, 0, ClientTenureMonths(time.Time{}, now))
	// Future start dates use the absolute difference.
	assert.Equal(t, 2, ClientTenureMonths(now.AddDate(0, 0, 62), now))
}

func TestPercentageOf(t *testing.T) {
	assert.Equal(t, 50, PercentageOf(decimal.NewFromInt(5), decimal.NewFromInt(10)))
	assert.Equal(t, 0, PercentageOf(decimal.NewFromInt(5), decimal.Zero))
	assert.Equal(t, 100, PercentageOf(decimal.NewFromInt(10), decimal.NewFromInt(10)))
	// Round half-up: 12.5% -> 13.
	assert.Equal(t, 13, PercentageOf(decimal.NewFromInt(1), decimal.NewFromInt(8)))
	// 33.33..% -> 33.
	assert.Equal(t, 33, PercentageOf(decimal.NewFromInt(1), decimal.NewFromInt(3)))
}

func TestComputeRefreshesEverythingTogether(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	acc := domain.Account{
		PointsPurchased:          decimal.NewFromInt(150),
		PointsDelivered:          decimal.NewFromInt(0),
		RecurringPointsAllotment: decimal.NewFromInt(100),
		MRR:                      decimal.NewFromInt(1000),
		GrowthInMRR:              decimal.NewFromInt(250),
		RelationshipStartDate:    now.AddDate(0, 0, -92),
	}

	derived := Compute(acc, now)

	require.True(t, derived.PointsBalance.Valid)
	assert.True(t, derived.PointsBalance.Decimal.Equal(decimal.NewFromInt(150)))
	require.True(t, derived.PointsStrikingDistance.Valid)
	assert.True(t, derived.PointsStrikingDistance.Decimal.IsZero())
	assert.Equal(t, domain.DeliveryOnTrack, derived.Delivery)
	require.True(t, derived.PotentialMRR.Valid)
	assert.True(t, derived.PotentialMRR.Decimal.Equal(decimal.NewFromInt(1250)))
	assert.Equal(t, 3, derived.ClientTenureMonths)
	assert.Equal(t, 0, derived.PointsDeliveredPct)

	// Changing one input must move every dependent output on the next Compute.
	acc.PointsDelivered = decimal.NewFromInt(75)
	derived = Compute(acc, now)
	assert.True(t, derived.PointsBalance.Decimal.Equal(decimal.NewFromInt(75)))
	assert.True(t, derived.PointsStrikingDistance.Decimal.Equal(decimal.NewFromInt(-75)))
	assert.Equal(t, domain.DeliveryOnTrack, derived.Delivery)
	assert.Equal(t, 50, derived.PointsDeliveredPct)
}
