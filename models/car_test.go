package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCarTableName(t *testing.T) {
	car := Car{}
	assert.Equal(t, "cars", car.TableName(), "Table name should be 'cars'")
}

func TestIsValidSerialNumber(t *testing.T) {
	tests := []struct {
		name   string
		serial string
		valid  bool
	}{
		{"valid VIN-like serial", "1HGCM82633A004352", true},
		{"all digits", "00000000000000000", true},
		{"all uppercase letters", "ABCDEFGHJKLMNPRST", true},
		{"too short", "1HGCM82633A00435", false},
		{"too long", "1HGCM82633A0043521", false},
		{"lowercase letters", "1hgcm82633a004352", false},
		{"special characters", "1HGCM82633A00435!", false},
		{"embedded space", "1HGCM82633A 04352", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, IsValidSerialNumber(tt.serial))
		})
	}
}
