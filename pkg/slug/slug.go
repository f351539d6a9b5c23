package slug

import (
	"crypto/rand"
	"strings"
	"unicode"
)

// Option configures slug generation.
type Option func(*config)

type config struct {
	maxLength    int
	separator    string
	suffixLength int
}

func defaultConfig() *config {
	return &config{
		maxLength: 0, // no limit
		separator: "-",
	}
}

// MaxLength truncates the generated slug to n runes.
func MaxLength(n int) Option {
	return func(c *config) { c.maxLength = n }
}

// Separator sets the separator character. Default is "-".
func Separator(s string) Option {
	return func(c *config) { c.separator = s }
}

// WithSuffix appends a random alphanumeric suffix of the given length to
// reduce collisions between businesses with the same name.
func WithSuffix(length int) Option {
	return func(c *config) { c.suffixLength = length }
}

// Make creates a URL-safe routing key from a business name. Letters and
// digits pass through lowercased, common Latin diacritics fold to ASCII,
// and runs of other characters collapse into a single separator.
func Make(s string, opts ...Option) string {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	var b strings.Builder
	b.Grow(len(s))

	lastWasSep := true // avoid a leading separator
	runeCount := 0

	for _, r := range s {
		if cfg.maxLength > 0 && runeCount >= cfg.maxLength {
			break
		}

		r = unicode.ToLower(r)
		if folded, ok := foldDiacritic(r); ok {
			r = unicode.ToLower(folded)
		}

		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			lastWasSep = false
			runeCount++
			continue
		}

		if !lastWasSep {
			if cfg.maxLength > 0 && runeCount+len(cfg.separator) > cfg.maxLength {
				break
			}
			b.WriteString(cfg.separator)
			lastWasSep = true
			runeCount += len([]rune(cfg.separator))
		}
	}

	result := strings.TrimSuffix(b.String(), cfg.separator)

	if cfg.suffixLength > 0 {
		suffix := randomSuffix(cfg.suffixLength)
		if result != "" {
			result = result + cfg.separator + suffix
		} else {
			result = suffix
		}
	}

	return result
}

// Valid reports whether s is an acceptable routing key: non-empty,
// lowercase letters, digits and hyphens only, no leading or trailing hyphen.
func Valid(s string) bool {
	if s == "" || strings.HasPrefix(s, "-") || strings.HasSuffix(s, "-") {
		return false
	}
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') && r != '-' {
			return false
		}
	}
	return true
}

// foldDiacritic maps common Latin diacritics to ASCII equivalents.
var diacriticMap = map[rune]rune{
	'à': 'a', 'á': 'a', 'â': 'a', 'ã': 'a', 'ä': 'a', 'å': 'a',
	'ç': 'c', 'è': 'e', 'é': 'e', 'ê': 'e', 'ë': 'e',
	'ì': 'i', 'í': 'i', 'î': 'i', 'ï': 'i',
	'ñ': 'n', 'ò': 'o', 'ó': 'o', 'ô': 'o', 'õ': 'o', 'ö': 'o', 'ø': 'o',
	'ù': 'u', 'ú': 'u', 'û': 'u', 'ü': 'u',
	'ý': 'y', 'ÿ': 'y', 'ß': 's',
}

func foldDiacritic(r rune) (rune, bool) {
	folded, ok := diacriticMap[r]
	if !ok {
		return r, false
	}
	return folded, true
}

func randomSuffix(length int) string {
	const charset = "abcdefghijklmnopqrstuvwxyz0123456789"

	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		for i := range b {
			b[i] = charset[i%len(charset)]
		}
		return string(b)
	}
	for i := range b {
		b[i] = charset[b[i]%byte(len(charset))]
	}
	return string(b)
}
