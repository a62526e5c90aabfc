package validation

import (
	"strings"
	"testing"
)

type sample struct {
	Name  string  `validate:"required"`
	Port  int     `validate:"min=1,max=65535"`
	Level string  `validate:"oneof=debug info"`
	Ratio float64 `validate:"gte=0"`
}

func TestStruct(t *testing.T) {
	tests := []struct {
		name    string
		input   sample
		wantErr string
	}{
		{"valid", sample{Name: "a", Port: 80, Level: "info"}, ""},
		{"missing name", sample{Port: 80, Level: "info"}, "sample.Name: field is required"},
		{"port too high", sample{Name: "a", Port: 70000, Level: "info"}, "sample.Port: must not exceed 65535"},
		{"port too low", sample{Name: "a", Port: 0, Level: "info"}, "sample.Port: must be at least 1"},
		{"bad level", sample{Name: "a", Port: 1, Level: "trace"}, "sample.Level: must be one of [debug info]"},
		{"negative ratio", sample{Name: "a", Port: 1, Level: "info", Ratio: -1}, "sample.Ratio: must be at least 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(tt.input)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Struct() error = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestStruct_Nil(t *testing.T) {
	if err := Struct(nil); err == nil {
		t.Error("Expected error for nil input")
	}
}
