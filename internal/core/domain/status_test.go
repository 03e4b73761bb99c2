package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/lesscache/internal/core/domain"
)

func TestStylesheetStatus_IsTerminal(t *testing.T) {
	tests := []struct {
		name       string
		status     domain.StylesheetStatus
		isTerminal bool
	}{
		{"Pending", domain.StatusPending, false},
		{"Running", domain.StatusRunning, false},
		{"Compiled", domain.StatusCompiled, true},
		{"Cached", domain.StatusCached, true},
		{"Failed", domain.StatusFailed, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.isTerminal, tt.status.IsTerminal())
		})
	}
}

func TestNormalizeStylesheetStatus(t *testing.T) {
	tests := []struct {
		input    string
		expected domain.StylesheetStatus
	}{
		{"pending", domain.StatusPending},
		{"RUNNING", domain.StatusRunning},
		{"compiled", domain.StatusCompiled},
		{"Cached", domain.StatusCached},
		{"failed", domain.StatusFailed},
		{"bogus", domain.StatusPending},
		{"", domain.StatusPending},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, domain.NormalizeStylesheetStatus(tt.input))
		})
	}
}

func TestLogLevel_String(t *testing.T) {
	assert.Equal(t, "DEBUG", domain.LogLevelDebug.String())
	assert.Equal(t, "INFO", domain.LogLevelInfo.String())
	assert.Equal(t, "WARN", domain.LogLevelWarn.String())
	assert.Equal(t, "ERROR", domain.LogLevelError.String())
	assert.Equal(t, "INFO", domain.LogLevel(42).String())
}
