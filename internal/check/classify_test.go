package check

import (
	"testing"

	"apptrack/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestIsVersionToken(t *testing.T) {
	tests := []struct {
		candidate string
		want      bool
	}{
		{"1.2.3", true},
		{"2.0-rc1", true},
		{"1.2 (beta)", true},
		{"1.2 (beta 3)", false},
		{"Varies with device", false},
		{"Version unknown", false},
		{"", true},
	}

	for _, tt := range tests {
		t.Run(tt.candidate, func(t *testing.T) {
			assert.Equal(t, tt.want, IsVersionToken(tt.candidate))
		})
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		candidate string
		installed string
		want      models.CheckStatus
	}{
		{"same version", "1.2.3", "1.2.3", models.CheckSuccess},
		{"newer version", "1.2.4", "1.2.3", models.CheckUpdated},
		{"older version still counts as changed", "1.0.0", "1.2.3", models.CheckUpdated},
		{"marketing text", "Varies with device", "1.2.3", models.CheckError},
		{"parenthesized suffix", "1.2 (beta)", "1.1", models.CheckUpdated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.candidate, tt.installed))
		})
	}
}
