package ikea

import (
	"regexp"
	"strings"

	"github.com/samber/lo"
)

var (
	itemCodePattern = regexp.MustCompile(`\d{3}[, .-]{0,2}\d{3}[, .-]{0,2}\d{2}`)
	nonDigit        = regexp.MustCompile(`\D`)
)

// ParseItemCodes extracts 8-digit item codes from free text such as
// "123.456.78, S12345678". Codes are returned once each, in order of first
// appearance.
func ParseItemCodes(text string) []string {
	matches := itemCodePattern.FindAllString(text, -1)
	codes := lo.Map(matches, func(m string, _ int) string {
		return nonDigit.ReplaceAllString(m, "")
	})
	return lo.Uniq(codes)
}

// ParseItemCodesList runs ParseItemCodes over each element and merges the
// results.
func ParseItemCodesList(texts []string) []string {
	return ParseItemCodes(strings.Join(texts, "\n"))
}
