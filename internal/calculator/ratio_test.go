package calculator

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/hauskasse/backend/internal/models"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestCalculateRatios(t *testing.T) {
	tests := []struct {
		name         string
		settings     models.SplitSettings
		members      []MemberIncome
		wantErr      error
		validateFunc func(t *testing.T, ratios []models.MemberRatio)
	}{
		{
			name:     "automatic income-proportional split",
			settings: models.SplitSettings{Method: models.SplitAutomatic},
			members: []MemberIncome{
				{MemberID: "anna", Income: dec("3000")},
				{MemberID: "ben", Income: dec("2000")},
			},
			validateFunc: func(t *testing.T, ratios []models.MemberRatio) {
				// 3000/5000 -> 60%, 2000/5000 -> 40%
				if !ratios[0].Percentage.Equal(dec("60")) {
					t.Errorf("anna percentage = %v, want 60", ratios[0].Percentage)
				}
				if !ratios[1].Percentage.Equal(dec("40")) {
					t.Errorf("ben percentage = %v, want 40", ratios[1].Percentage)
				}
			},
		},
		{
			name:     "automatic with zero total income falls back to equal split",
			settings: models.SplitSettings{Method: models.SplitAutomatic},
			members: []MemberIncome{
				{MemberID: "anna"},
				{MemberID: "ben"},
			},
			validateFunc: func(t *testing.T, ratios []models.MemberRatio) {
				for _, r := range ratios {
					if !r.Percentage.Equal(dec("50")) {
						t.Errorf("%s percentage = %v, want 50", r.MemberID, r.Percentage)
					}
				}
			},
		},
		{
			name:     "solo household gets a single 100% entry",
			settings: models.SplitSettings{Method: models.SplitAutomatic},
			members:  []MemberIncome{{MemberID: "anna", Income: dec("3000")}},
			validateFunc: func(t *testing.T, ratios []models.MemberRatio) {
				if len(ratios) != 1 {
					t.Fatalf("got %d ratios, want 1", len(ratios))
				}
				if !ratios[0].Percentage.Equal(dec("100")) {
					t.Errorf("percentage = %v, want 100", ratios[0].Percentage)
				}
			},
		},
		{
			name: "manual percentages pass through",
			settings: models.SplitSettings{
				Method: models.SplitManual,
				ManualRatios: map[string]decimal.Decimal{
					"anna": dec("70"),
					"ben":  dec("30"),
				},
			},
			members: []MemberIncome{
				{MemberID: "anna", Income: dec("3000")},
				{MemberID: "ben", Income: dec("2000")},
			},
			validateFunc: func(t *testing.T, ratios []models.MemberRatio) {
				if !ratios[0].Percentage.Equal(dec("70")) {
					t.Errorf("anna percentage = %v, want 70", ratios[0].Percentage)
				}
				// Income is carried for display even in manual mode.
				if !ratios[0].Income.Equal(dec("3000")) {
					t.Errorf("anna income = %v, want 3000", ratios[0].Income)
				}
			},
		},
		{
			name: "manual percentages within 0.01 tolerance pass",
			settings: models.SplitSettings{
				Method: models.SplitManual,
				ManualRatios: map[string]decimal.Decimal{
					"anna": dec("33.33"),
					"ben":  dec("33.33"),
					"cleo": dec("33.33"),
				},
			},
			members: []MemberIncome{
				{MemberID: "anna"},
				{MemberID: "ben"},
				{MemberID: "cleo"},
			},
			validateFunc: func(t *testing.T, ratios []models.MemberRatio) {
				if len(ratios) != 3 {
					t.Fatalf("got %d ratios, want 3", len(ratios))
				}
			},
		},
		{
			name: "manual percentages not summing to 100 error",
			settings: models.SplitSettings{
				Method: models.SplitManual,
				ManualRatios: map[string]decimal.Decimal{
					"anna": dec("60"),
					"ben":  dec("60"),
				},
			},
			members: []MemberIncome{
				{MemberID: "anna"},
				{MemberID: "ben"},
			},
			wantErr: ErrBadPercentages,
		},
		{
			name:     "no members yields no ratios",
			settings: models.SplitSettings{Method: models.SplitAutomatic},
			members:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ratios, err := CalculateRatios(tt.settings, tt.members)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("CalculateRatios error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("CalculateRatios failed: %v", err)
			}
			if len(ratios) != len(tt.members) {
				t.Fatalf("got %d ratios, want %d", len(ratios), len(tt.members))
			}
			if tt.validateFunc != nil {
				tt.validateFunc(t, ratios)
			}
		})
	}
}

func TestSplitAmount(t *testing.T) {
	tests := []struct {
		name       string
		amount     string
		percentage string
		want       string
	}{
		{"even division", "100", "40", "40.00"},
		{"rounds to two decimals", "100", "33.333333", "33.33"},
		{"rounds half away from zero", "10.01", "50", "5.01"},
		{"full share", "59.90", "100", "59.90"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitAmount(dec(tt.amount), dec(tt.percentage))
			if !got.Equal(dec(tt.want)) {
				t.Errorf("SplitAmount(%s, %s) = %v, want %s", tt.amount, tt.percentage, got, tt.want)
			}
		})
	}
}
