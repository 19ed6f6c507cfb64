package woocommerce

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedSigner() *oauthSigner {
	s := newOAuthSigner("ck_1", "cs_1")
	s.now = func() time.Time { return time.Unix(1700000000, 0) }
	s.nonce = func() (string, error) { return "abc123", nil }
	return s
}

func TestOAuthSigner_Sign(t *testing.T) {
	params := url.Values{"per_page": {"1"}}

	require.NoError(t, fixedSigner().Sign("get", "http://shop.test/wp-json/wc/v3/products", params))

	assert.Equal(t, "ck_1", params.Get("oauth_consumer_key"))
	assert.Equal(t, "abc123", params.Get("oauth_nonce"))
	assert.Equal(t, "HMAC-SHA256", params.Get("oauth_signature_method"))
	assert.Equal(t, "1700000000", params.Get("oauth_timestamp"))
	assert.Equal(t, "npPC3X7LluL8gtYpEwqv9nIiCm4kGSmVllDshpISEDM=", params.Get("oauth_signature"))
}

func TestNormalizeParams(t *testing.T) {
	params := url.Values{
		"b":               {"2"},
		"a":               {"z", "y"},
		"search":          {"faro delantero"},
		"oauth_signature": {"ignored"},
	}

	assert.Equal(t, "a=y&a=z&b=2&search=faro%20delantero", normalizeParams(params))
}

func TestPercentEncode(t *testing.T) {
	assert.Equal(t, "a%20b~c%2Fd", percentEncode("a b~c/d"))
}

func TestGenerateNonce(t *testing.T) {
	a, err := generateNonce()
	require.NoError(t, err)
	b, err := generateNonce()
	require.NoError(t, err)

	assert.Len(t, a, 32)
	assert.NotEqual(t, a, b)
}
