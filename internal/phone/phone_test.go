package phone

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizer_Normalize_Valid(t *testing.T) {
	n := NewNormalizer("US")

	cases := map[string]string{
		"+15551234567":      "+15551234567",
		"+1 (555) 123-4567": "+15551234567",
		"(555) 987-6543":    "+15559876543",
		"  555.111.2222 ":   "+15551112222",
		"+44 20 7946 0958":  "+442079460958",
	}

	for raw, want := range cases {
		got, err := n.Normalize(raw)
		assert.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}
}

func TestNormalizer_Normalize_Invalid(t *testing.T) {
	n := NewNormalizer("US")

	for _, raw := range []string{"", "   ", "not-a-phone", "123", "+1 555"} {
		_, err := n.Normalize(raw)
		assert.Error(t, err, raw)
	}
}

func TestNewNormalizer_DefaultRegion(t *testing.T) {
	n := NewNormalizer("")

	got, err := n.Normalize("555 123 4567")

	assert.NoError(t, err)
	assert.Equal(t, "+15551234567", got)
}
