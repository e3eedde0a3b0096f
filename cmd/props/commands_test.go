package props

import "testing"

func TestParseAssignments(t *testing.T) {
	updates, err := parseAssignments([]string{"theme=dark", "filter=from=a@b.c", "empty="})
	if err != nil {
		t.Fatalf("parseAssignments() error = %v", err)
	}
	if updates["theme"] != "dark" || updates["filter"] != "from=a@b.c" || updates["empty"] != "" || len(updates) != 3 {
		t.Errorf("parseAssignments() = %v", updates)
	}

	for _, bad := range []string{"novalue", "=x"} {
		if _, err := parseAssignments([]string{bad}); err == nil {
			t.Errorf("parseAssignments(%q) expected error", bad)
		}
	}
}

func TestKeyArgs(t *testing.T) {
	tests := []struct {
		n       int
		args    []string
		wantErr bool
	}{
		{1, []string{"theme"}, false},
		{2, []string{"theme", ""}, false},
		{1, []string{""}, true},
		{2, []string{" ", "dark"}, true},
		{1, []string{}, true},
		{1, []string{"a", "b"}, true},
	}

	for _, tt := range tests {
		err := keyArgs(tt.n)(getCmd, tt.args)
		if (err != nil) != tt.wantErr {
			t.Errorf("keyArgs(%d)(%q) error = %v, wantErr %v", tt.n, tt.args, err, tt.wantErr)
		}
	}
}
