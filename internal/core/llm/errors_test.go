package llm

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyError(t *testing.T) {
	cases := []struct {
		msg  string
		want ErrorType
	}{
		{"You exceeded your current quota", ErrorQuota},
		{"insufficient_quota: add credits to continue", ErrorQuota},
		{"status 429: rate limit reached", ErrorRate},
		{"prompt is too long for this model", ErrorContext},
		{"context length exceeded", ErrorContext},
		{"request timeout", ErrorTransient},
		{"model temporarily overloaded", ErrorTransient},
		{"invalid api key", ErrorPermanent},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ClassifyError(errors.New(tc.msg)), tc.msg)
	}

	assert.Equal(t, ErrorType(""), ClassifyError(nil))
}
