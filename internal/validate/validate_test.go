package validate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"latin", "David", true},
		{"hebrew", "דוד לוי", true},
		{"hyphenated", "Tel-Aviv", true},
		{"mixed with spaces", "Beer Sheva דרום", true},
		{"empty", "", false},
		{"digits", "David2", false},
		{"punctuation", "David!", false},
		{"underscore", "a_b", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Text(tt.input))
		})
	}
}

func TestPhone(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"seven digits", "1234567", true},
		{"typical mobile", "0501234567", true},
		{"fifteen digits", "123456789012345", true},
		{"six digits", "123456", false},
		{"sixteen digits", "1234567890123456", false},
		{"with dash", "050-1234567", false},
		{"with letters", "05O1234567", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Phone(tt.input))
		})
	}
}

func TestDate(t *testing.T) {
	today := time.Now().Format(DateLayout)
	tomorrow := time.Now().AddDate(0, 0, 1).Format(DateLayout)
	yesterday := time.Now().AddDate(0, 0, -1).Format(DateLayout)

	assert.True(t, Date("2099-01-01"))
	assert.True(t, Date(today))
	assert.True(t, Date(tomorrow))
	assert.False(t, Date(yesterday))
	assert.False(t, Date("2000-01-01"))
	assert.False(t, Date("not-a-date"))
	assert.False(t, Date("2025-13-01"))
	assert.False(t, Date(""))
}

func TestCapacity(t *testing.T) {
	assert.True(t, Capacity(1))
	assert.True(t, Capacity(100))
	assert.True(t, Capacity(4))
	assert.False(t, Capacity(0))
	assert.False(t, Capacity(101))
	assert.False(t, Capacity(-1))
}
