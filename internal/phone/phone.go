package phone

import (
	"fmt"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// Normalizer turns user-entered phone numbers into E.164
type Normalizer struct {
	defaultRegion string
}

// NewNormalizer creates a normalizer that resolves numbers without a
// country prefix against region (ISO 3166-1 alpha-2, e.g. "US")
func NewNormalizer(region string) *Normalizer {
	region = strings.ToUpper(strings.TrimSpace(region))
	if region == "" {
		region = "US"
	}
	return &Normalizer{defaultRegion: region}
}

// Normalize parses raw and returns it in E.164 form.
// Numbers only need to be possible, not assigned, so fictional 555 numbers pass.
func (n *Normalizer) Normalize(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("phone number is empty")
	}

	num, err := phonenumbers.Parse(raw, n.defaultRegion)
	if err != nil {
		return "", fmt.Errorf("failed to parse phone number %q: %w", raw, err)
	}

	if !phonenumbers.IsPossibleNumber(num) {
		return "", fmt.Errorf("phone number %q has an impossible length", raw)
	}

	return phonenumbers.Format(num, phonenumbers.E164), nil
}
