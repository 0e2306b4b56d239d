package models

import (
	"reflect"
	"testing"
)

func TestGroupNames(t *testing.T) {
	tests := []struct {
		name   string
		groups string
		want   []string
	}{
		{
			name:   "comma separated with spaces",
			groups: "Group 3, Advanced Tumbling",
			want:   []string{"Group 3", "Advanced Tumbling"},
		},
		{
			name:   "empty segments dropped",
			groups: "Group 3,, ,Advanced Tumbling,",
			want:   []string{"Group 3", "Advanced Tumbling"},
		},
		{
			name:   "empty list",
			groups: "",
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			account := Account{GroupsText: tt.groups}
			if got := account.GroupNames(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("GroupNames() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHasLegacyDependents(t *testing.T) {
	tests := []struct {
		blob string
		want bool
	}{
		{"", false},
		{"  ", false},
		{"[]", false},
		{"null", false},
		{`[{"name": "Ana"}]`, true},
	}

	for _, tt := range tests {
		account := Account{LegacyDependents: tt.blob}
		if got := account.HasLegacyDependents(); got != tt.want {
			t.Errorf("HasLegacyDependents(%q) = %v, want %v", tt.blob, got, tt.want)
		}
	}
}

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"  Ana   Pop ", "Ana Pop"},
		{"Ana Pop", "Ana Pop"},
		{"   ", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := NormalizeName(tt.raw); got != tt.want {
			t.Errorf("NormalizeName(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}
