package ikea_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/donaldgifford/ikea-api-client/pkg/ikea"
)

func TestParseItemCodes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want []string
	}{
		{name: "plain", text: "11111111", want: []string{"11111111"}},
		{name: "dotted", text: "111.111.11", want: []string{"11111111"}},
		{name: "prefixed spr code", text: "S12345678", want: []string{"12345678"}},
		{name: "mixed separators", text: "123-456 78, 876.543.21", want: []string{"12345678", "87654321"}},
		{name: "duplicates removed", text: "11111111 111.111.11 22222222", want: []string{"11111111", "22222222"}},
		{name: "too short", text: "1234567", want: []string{}},
		{name: "empty", text: "", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ikea.ParseItemCodes(tt.text))
		})
	}
}

func TestParseItemCodesList(t *testing.T) {
	t.Parallel()

	got := ikea.ParseItemCodesList([]string{"1111", "1111", "222.222.22", "11111111"})
	assert.Equal(t, []string{"22222222", "11111111"}, got)
}
