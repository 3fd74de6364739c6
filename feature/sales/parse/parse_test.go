package parse_test

import (
	"testing"
	"time"

	"sales-reconciler/feature/sales/parse"

	"github.com/stretchr/testify/assert"
)

func TestCurrency(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
	}{
		{"CommaDecimal", "1.234,56", 1234.56},
		{"PeriodDecimal", "1,234.56", 1234.56},
		{"ParenthesesNegative", "(12.50)", -12.5},
		{"Empty", "", 0},
		{"CurrencyPrefix", "MXN 99.99", 99.99},
		{"CurrencySymbol", "$1,500.00", 1500},
		{"SingleComma", "12,5", 12.5},
		{"MultipleCommasGrouping", "1,234,567", 1234567},
		{"SinglePeriod", "1.234", 1.234},
		{"MultiplePeriodsGrouping", "1.234.567", 1234567},
		{"NonBreakingSpace", "1 234,50", 1234.5},
		{"PlainInteger", "42", 42},
		{"NegativeSign", "-15.25", -15.25},
		{"Garbage", "n/a", 0},
		{"OnlySymbols", "$-", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, parse.Currency(tt.input), 1e-9)
		})
	}
}

func TestInt(t *testing.T) {
	assert.Equal(t, 12, parse.Int("12.9"))
	assert.Equal(t, -12, parse.Int("(12.9)"))
	assert.Equal(t, 0, parse.Int("no number"))
	assert.Equal(t, 1500, parse.Int("1,500.00"))
	assert.Equal(t, 0, parse.Int(""))
}

func TestPaymentMethod(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int
		matched bool
	}{
		{"CardPresent", "Tarjeta Presente", parse.CodeCardPresent, true},
		{"CashUppercase", "EFECTIVO", parse.CodeCash, true},
		{"CardOnlineAccented", "tarjeta (en línea)", parse.CodeCardOnline, true},
		{"CardOnlinePlain", "Tarjeta en linea", parse.CodeCardOnline, true},
		{"Free", "gratis", parse.CodeFree, true},
		{"Unmatched", "cheque", 0, false},
		{"Empty", "", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, ok := parse.PaymentMethod(tt.input)
			assert.Equal(t, tt.matched, ok)
			assert.Equal(t, tt.want, code)
		})
	}
}

func TestPaymentMethodRuleOrder(t *testing.T) {
	// "tarjeta presente" must win over the generic "tarjeta" online rules.
	code, ok := parse.PaymentMethod("Pago con tarjeta presente")
	assert.True(t, ok)
	assert.Equal(t, parse.CodeCardPresent, code)
}

func TestDateTime(t *testing.T) {
	t.Run("RFC3339", func(t *testing.T) {
		got := parse.DateTime("2026-09-15T18:30:00Z")
		if assert.NotNil(t, got) {
			assert.Equal(t, time.Date(2026, 9, 15, 18, 30, 0, 0, time.UTC), *got)
		}
	})

	t.Run("ISOWithOffset", func(t *testing.T) {
		got := parse.DateTime("2026-09-15T18:30:00-06:00")
		if assert.NotNil(t, got) {
			assert.Equal(t, time.Date(2026, 9, 16, 0, 30, 0, 0, time.UTC), *got)
		}
	})

	t.Run("ISOMissingOffsetIsUTC", func(t *testing.T) {
		got := parse.DateTime("2026-09-15T18:30:00")
		if assert.NotNil(t, got) {
			assert.Equal(t, time.Date(2026, 9, 15, 18, 30, 0, 0, time.UTC), *got)
		}
	})

	t.Run("DayFirstWithTime", func(t *testing.T) {
		got := parse.DateTime("31/12/2026 18:30")
		if assert.NotNil(t, got) {
			assert.Equal(t, time.Date(2026, 12, 31, 18, 30, 0, 0, time.UTC), *got)
		}
	})

	t.Run("DateOnly", func(t *testing.T) {
		got := parse.DateTime("2026-12-31")
		if assert.NotNil(t, got) {
			assert.Equal(t, time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC), *got)
		}
	})

	t.Run("Unparsable", func(t *testing.T) {
		assert.Nil(t, parse.DateTime("next friday"))
		assert.Nil(t, parse.DateTime(""))
	})
}

func TestDate(t *testing.T) {
	got := parse.Date("2026-12-31 23:00:00")
	if assert.NotNil(t, got) {
		assert.Equal(t, time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC), *got)
	}

	assert.Nil(t, parse.Date("31/12/2026"))
	assert.Nil(t, parse.Date(""))
}
