package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/ikea-api-client/cmd/ikea/cmd"
)

// Subtests share cmd.Root() and so run sequentially.
func TestGenerate(t *testing.T) {
	tests := []struct {
		name     string
		format   string
		file     string
		contains string
		wantErr  bool
	}{
		{
			name:     "markdown with front matter",
			format:   formatMarkdown,
			file:     "ikea_cart_show.md",
			contains: "---\ntitle: \"ikea cart show\"\nslug: \"ikea_cart_show\"\n---\n",
		},
		{
			name:     "man pages",
			format:   formatMan,
			file:     "ikea-cart-show.1",
			contains: ".TH ",
		},
		{
			name:     "yaml",
			format:   formatYAML,
			file:     "ikea_cart_show.yaml",
			contains: "name: ikea cart show",
		},
		{
			name:    "unknown format",
			format:  "pdf",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := filepath.Join(t.TempDir(), "cli")

			err := generate(cmd.Root(), dir, tt.format)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "unknown format")
				return
			}
			require.NoError(t, err)

			data, err := os.ReadFile(filepath.Join(dir, tt.file))
			require.NoError(t, err)
			assert.Contains(t, string(data), tt.contains)
		})
	}
}

func TestLinkHandler(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "../ikea_cart/", linkHandler("ikea_cart.md"))
}

func TestPrependFrontMatter(t *testing.T) {
	t.Parallel()

	got := prependFrontMatter("/tmp/docs/ikea_purchases_watch.md")
	assert.True(t, strings.HasPrefix(got, "---\ntitle: \"ikea purchases watch\""))
}
