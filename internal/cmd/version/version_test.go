package version

import "testing"

func TestFormat(t *testing.T) {
	tests := []struct {
		name    string
		version string
		commit  string
		want    string
	}{
		{"plain", "1.2.3", "", "seqpack version 1.2.3"},
		{"v prefix stripped", "v1.2.3", "", "seqpack version 1.2.3"},
		{"with commit", "1.2.3", "abc1234", "seqpack version 1.2.3 (abc1234)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Format(tt.version, tt.commit); got != tt.want {
				t.Errorf("Format() = %q, want %q", got, tt.want)
			}
		})
	}
}
