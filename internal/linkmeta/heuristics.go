package linkmeta

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/dmitrijs2005/sharebox/internal/models"
)

var categoryRules = []struct {
	category string
	re       *regexp.Regexp
}{
	{"electronics", regexp.MustCompile(`phone|laptop|earbud|camera|monitor|gaming|tablet|electronics`)},
	{"fashion", regexp.MustCompile(`shirt|shoe|dress|fashion|jeans|jacket|watch`)},
	{"home", regexp.MustCompile(`home|kitchen|furniture|decor|bed|sofa|lamp`)},
	{"beauty", regexp.MustCompile(`beauty|skin|cosmetic|makeup|perfume|hair`)},
	{"sports", regexp.MustCompile(`sport|fitness|gym|yoga|cycling|running`)},
}

var priceRe = regexp.MustCompile(`(?i)(?:\$|USD|EUR|BDT|INR|Tk\.?)\s?([0-9]+(?:[.,][0-9]{1,2})?)`)

// DetectCategory guesses a category from free text by keyword. The first
// matching rule wins; no match gives the default category.
func DetectCategory(text string) string {
	value := strings.ToLower(text)
	for _, rule := range categoryRules {
		if rule.re.MatchString(value) {
			return rule.category
		}
	}
	return models.DefaultCategory
}

// ExtractPrice returns the first currency-tagged amount in text with a dot
// decimal separator, or "".
func ExtractPrice(text string) string {
	m := priceRe.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return strings.Replace(m[1], ",", ".", 1)
}

// NormalizeURL trims raw and defaults its scheme to https. It returns "" when
// the result is not a usable absolute URL.
func NormalizeURL(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	if !strings.HasPrefix(trimmed, "http") {
		trimmed = "https://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil || u.Host == "" {
		return ""
	}
	if u.Path == "" {
		u.Path = "/"
	}
	return u.String()
}

// titleFromText picks the first line of plausible title length.
func titleFromText(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if n := len([]rune(line)); n > 10 && n < 120 {
			return line
		}
	}
	return ""
}

// descriptionFromText picks the first line of plausible description length.
func descriptionFromText(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if n := len([]rune(line)); n > 40 && n < 320 {
			return line
		}
	}
	return ""
}

// complete fills the derived fields of m from its text fields.
func complete(m models.LinkMetadata, text, sourceURL string) models.LinkMetadata {
	summary := m.Title + " " + m.Description
	if m.Price == "" {
		if text == "" {
			text = summary
		}
		m.Price = ExtractPrice(text)
	}
	if m.Category == "" {
		m.Category = DetectCategory(summary)
	}
	m.SourceURL = sourceURL
	return m
}
