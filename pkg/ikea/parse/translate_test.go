package parse_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/donaldgifford/ikea-api-client/pkg/ikea/parse"
)

func TestTranslate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		lang string
		key  string
		want string
	}{
		{name: "russian", lang: "ru", key: "HOME_DELIVERY", want: "Доставка на дом"},
		{name: "german", lang: "de", key: "CANCELLED", want: "Storniert"},
		{name: "english", lang: "en", key: "PUP", want: "Pickup point"},
		{name: "unknown language falls back to english", lang: "sv", key: "COMPLETED", want: "Completed"},
		{name: "unknown key is returned as is", lang: "ru", key: "DRONE", want: "DRONE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, parse.Translate(tt.lang, tt.key))
		})
	}
}
