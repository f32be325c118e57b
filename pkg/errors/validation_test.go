package errors

import (
	"strings"
	"testing"
)

func TestValidateNodeID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "customers", false},
		{"valid with dash", "stg-orders", false},
		{"valid with underscore", "fct_orders", false},
		{"valid with dot", "analytics.orders", false},
		{"valid qualified", "warehouse/analytics.orders", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 300), true},
		{"path traversal", "foo/../bar", true},
		{"double slash", "foo//bar", true},
		{"backslash", "foo\\bar", true},
		{"null byte", "foo\x00bar", true},
		{"control character", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNodeID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateNodeID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && GetCode(err) != ErrCodeInvalidNodeID {
				t.Errorf("GetCode() = %v, want %v", GetCode(err), ErrCodeInvalidNodeID)
			}
		})
	}
}

func TestValidateDirection(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"TB", false},
		{"LR", false},
		{"tb", true},
		{"RL", true},
		{"", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			err := ValidateDirection(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateDirection(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateTraversalMode(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"upstream", false},
		{"downstream", false},
		{"full", false},
		{"impact", false},
		{"sideways", true},
		{"", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			err := ValidateTraversalMode(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateTraversalMode(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateSpacing(t *testing.T) {
	tests := []struct {
		name    string
		input   float64
		wantErr bool
	}{
		{"default", 150, false},
		{"small", 0.5, false},
		{"zero", 0, true},
		{"negative", -10, true},
		{"huge", 20000, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSpacing(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSpacing(%g) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
