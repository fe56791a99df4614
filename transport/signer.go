package transport

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"time"
)

// TimestampFormat is the ISO-8601 millisecond layout carried in the
// X-Holibob-Date header. The timestamp is part of the signed payload, so it
// must be freshly generated per request and never reused across retries.
const TimestampFormat = "2006-01-02T15:04:05.000Z"

// Sign computes the request signature for signed mode:
// base64(HMAC-SHA1(timestamp + apiKey + "POST" + "/graphql" + body, secret)).
func Sign(timestamp, apiKey string, body []byte, secret string) string {
	mac := hmac.New(sha1.New, []byte(secret))
	mac.Write([]byte(timestamp))
	mac.Write([]byte(apiKey))
	mac.Write([]byte("POST"))
	mac.Write([]byte("/graphql"))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// FormatTimestamp renders t in the signed-header layout, always UTC.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampFormat)
}
