package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLabel(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
		ok   bool
	}{
		{"1", 1, true},
		{"1.0", 1, true},
		{" 1 ", 1, true},
		{"0", 0, true},
		{"true", 1, true},
		{"False", 0, true},
		{"", 0, false},
		{"attack", 0, false},
		{"NaN", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := parseLabel(tt.raw)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestLabelsMatch(t *testing.T) {
	assert.True(t, labelsMatch("1", "1.0"))
	assert.True(t, labelsMatch(" 0", "0"))
	assert.False(t, labelsMatch("0", "1"))
	assert.True(t, labelsMatch("Attack", " Attack "))
	assert.False(t, labelsMatch("Attack", "1"))
	assert.False(t, labelsMatch("", ""))
}

func TestBinaryLabel(t *testing.T) {
	assert.Equal(t, 0, binaryLabel("0.0"))
	assert.Equal(t, 1, binaryLabel("1"))
	assert.Equal(t, -1, binaryLabel("2"))
	assert.Equal(t, -1, binaryLabel("x"))
}
