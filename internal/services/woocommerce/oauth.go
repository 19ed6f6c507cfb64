package woocommerce

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

// oauthSigner signs requests with OAuth 1.0a one-legged HMAC-SHA256, the
// scheme WooCommerce requires for stores served over plain http.
type oauthSigner struct {
	consumerKey    string
	consumerSecret string
	now            func() time.Time
	nonce          func() (string, error)
}

func newOAuthSigner(consumerKey, consumerSecret string) *oauthSigner {
	return &oauthSigner{
		consumerKey:    consumerKey,
		consumerSecret: consumerSecret,
		now:            time.Now,
		nonce:          generateNonce,
	}
}

// Sign adds the oauth_* parameters, including the signature, to params.
// requestURL must not carry a query string.
func (s *oauthSigner) Sign(method, requestURL string, params url.Values) error {
	nonce, err := s.nonce()
	if err != nil {
		return err
	}

	params.Set("oauth_consumer_key", s.consumerKey)
	params.Set("oauth_nonce", nonce)
	params.Set("oauth_signature_method", "HMAC-SHA256")
	params.Set("oauth_timestamp", strconv.FormatInt(s.now().Unix(), 10))

	params.Set("oauth_signature", s.signature(method, requestURL, params))
	return nil
}

func (s *oauthSigner) signature(method, requestURL string, params url.Values) string {
	baseString := strings.ToUpper(method) + "&" +
		percentEncode(requestURL) + "&" +
		percentEncode(normalizeParams(params))

	mac := hmac.New(sha256.New, []byte(s.consumerSecret+"&"))
	mac.Write([]byte(baseString))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// normalizeParams renders params sorted by encoded key, then value.
func normalizeParams(params url.Values) string {
	type pair struct{ key, value string }
	pairs := make([]pair, 0, len(params))
	for key, values := range params {
		if key == "oauth_signature" {
			continue
		}
		for _, v := range values {
			pairs = append(pairs, pair{percentEncode(key), percentEncode(v)})
		}
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].key != pairs[j].key {
			return pairs[i].key < pairs[j].key
		}
		return pairs[i].value < pairs[j].value
	})

	parts := make([]string, len(pairs))
	for i, p := range pairs {
		parts[i] = p.key + "=" + p.value
	}
	return strings.Join(parts, "&")
}

// percentEncode applies RFC 3986 encoding as OAuth requires.
func percentEncode(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

func generateNonce() (string, error) {
	bytes := make([]byte, 16)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
