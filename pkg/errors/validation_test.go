package errors

import (
	"strings"
	"testing"
)

func TestValidateModuleID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "mypackage", false},
		{"dotted", "mypackage.domain.models", false},
		{"slashed", "github.com/acme/app/internal/db", false},
		{"unicode", "paquete.módulo", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 600), true},
		{"null byte", "foo\x00bar", true},
		{"newline", "foo\nbar", true},
		{"leading space", " foo", true},
		{"trailing tab", "foo\t", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateModuleID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateModuleID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidModule) {
				t.Errorf("ValidateModuleID(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidModule)
			}
		})
	}
}

func TestValidateEndpoints(t *testing.T) {
	tests := []struct {
		name     string
		importer string
		imported string
		wantErr  bool
	}{
		{"distinct", "a.b", "c.d", false},
		{"same", "a.b", "a.b", true},
		{"empty importer", "", "c", true},
		{"empty imported", "a", "", true},
		{"parent and child", "a", "a.b", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEndpoints(tt.importer, tt.imported)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateEndpoints(%q, %q) error = %v, wantErr %v", tt.importer, tt.imported, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidInput) {
				t.Errorf("code = %v, want %v", GetCode(err), ErrCodeInvalidInput)
			}
		})
	}
}
