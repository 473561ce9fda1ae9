package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCategory(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Category
	}{
		{"canonical", "termination", CategoryTermination},
		{"upper case", "DATA_PRIVACY", CategoryDataPrivacy},
		{"spaces instead of underscores", "intellectual property", CategoryIP},
		{"surrounding whitespace", "  payment  ", CategoryPayment},
		{"mixed case with spaces", " Force  Majeure ", CategoryForceMajeure},
		{"unknown", "astrology", CategoryOther},
		{"empty", "", CategoryOther},
		{"other is not in the model vocabulary but is valid input", "other", CategoryOther},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateCategory(tt.input))
		})
	}
}

func TestValidateRiskLevel(t *testing.T) {
	tests := []struct {
		input string
		want  RiskLevel
	}{
		{"high", RiskHigh},
		{"medium", RiskMedium},
		{"low", RiskLow},
		{"LOW", RiskLow},
		{" Medium ", RiskMedium},
		{"severe", RiskHigh},
		{"", RiskHigh},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ValidateRiskLevel(tt.input), "input %q", tt.input)
	}
}

func TestParseRegulations(t *testing.T) {
	regs, err := ParseRegulations([]string{"GDPR", " hipaa ", "gdpr"})
	require.NoError(t, err)
	assert.Equal(t, []Regulation{RegGDPR, RegHIPAA}, regs)

	_, err = ParseRegulations([]string{"gdpr", "banana"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = ParseRegulations(nil)
	assert.ErrorIs(t, err, ErrValidation)
}
