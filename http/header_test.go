package http

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHeaderHelpers(t *testing.T) {
	tests := []struct {
		name   string
		header Header
		want   Header
	}{
		{name: "Authorization", header: Authorization("Basic abc"), want: Header{Name: "Authorization", Value: "Basic abc"}},
		{name: "Bearer", header: BearerAuthorization("tok"), want: Header{Name: "Authorization", Value: "Bearer tok"}},
		{name: "ContentType", header: ContentType("text/plain"), want: Header{Name: "Content-Type", Value: "text/plain"}},
		{name: "Accept", header: Accept("application/json"), want: Header{Name: "Accept", Value: "application/json"}},
		{name: "UserAgent", header: UserAgent("httpmaster"), want: Header{Name: "User-Agent", Value: "httpmaster"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.header)
		})
	}
}

func TestHeader_StringRendersValue(t *testing.T) {
	assert.Equal(t, "42", NewHeader("X-Count", 42).String())
	assert.Equal(t, "true", NewHeader("X-Flag", true).String())
	assert.Equal(t, "", NewHeader("X-Nil", nil).String())
}

func TestRemoveHeaders(t *testing.T) {
	headers := []Header{
		{Name: "A", Value: "1"},
		{Name: "B", Value: "2"},
		{Name: "A", Value: "3"},
		{Name: "C", Value: "4"},
		{Name: "a", Value: "5"},
	}

	tests := []struct {
		name    string
		removed []string
		want    []Header
	}{
		{name: "Nothing", removed: nil, want: headers},
		{name: "No match", removed: []string{"Z"}, want: headers},
		{
			name:    "All duplicates of a name",
			removed: []string{"A"},
			want:    []Header{{Name: "B", Value: "2"}, {Name: "C", Value: "4"}, {Name: "a", Value: "5"}},
		},
		{
			name:    "Several names",
			removed: []string{"B", "a"},
			want:    []Header{{Name: "A", Value: "1"}, {Name: "A", Value: "3"}, {Name: "C", Value: "4"}},
		},
		{name: "Everything", removed: []string{"A", "B", "C", "a"}, want: []Header{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := removeHeaders(headers, tt.removed)
			assert.Equal(t, tt.want, got)
		})
	}
}
