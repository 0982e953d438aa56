package utils

import "testing"

func TestTruncateForLog(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		body  string
		limit int
		want  string
	}{
		{name: "no limit drops the body", body: `{"status":"completed"}`, limit: 0, want: ""},
		{name: "short body", body: `{"status":"completed"}`, limit: 100, want: `{"status":"completed"}`},
		{name: "pretty json on one line", body: "{\n  \"id\": 42,\n  \"status\": \"processing\"\n}\n", limit: 100, want: `{ "id": 42, "status": "processing" }`},
		{name: "long body", body: "abcdefghij", limit: 4, want: "abcd... (6 more)"},
		{name: "multibyte", body: "привет мир", limit: 6, want: "привет... (4 more)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := TruncateForLog(tt.body, tt.limit); got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
