package props

import (
	"errors"
	"testing"
)

func TestParseScope(t *testing.T) {
	tests := []struct {
		name    string
		want    Scope
		wantErr bool
	}{
		{"installation", ScopeInstallation, false},
		{"script", ScopeInstallation, false},
		{" Principal ", ScopePrincipal, false},
		{"user", ScopePrincipal, false},
		{"global", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseScope(tt.name)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseScope(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseScope(%q) = %s, want %s", tt.name, got, tt.want)
			}
		})
	}
}

func TestScopeValid(t *testing.T) {
	for _, s := range Scopes {
		if !s.Valid() {
			t.Errorf("%s should be valid", s)
		}
	}
	if Scope(7).Valid() {
		t.Error("Scope(7) should be invalid")
	}
	if got := Scope(7).String(); got != "Unknown(7)" {
		t.Errorf("String() = %q", got)
	}
}

func TestErrorMessage(t *testing.T) {
	var err error = NewError(RetCInternalError, "boom")
	var pErr *Error
	if !errors.As(err, &pErr) || pErr.Code != RetCInternalError {
		t.Fatalf("errors.As failed for %v", err)
	}
}
