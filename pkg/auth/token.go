package auth

import (
	"encoding/base64"
	"strings"
)

// DecodeAuthorization extracts the identifier:secret pair from an
// Authorization header using the standard basic token framing: the last
// whitespace-separated field is base64-decoded and split on the first
// colon. The scheme word, if any, is ignored, so both
// "Basic dXNlcjpwYXNz" and a bare token decode the same way.
//
// The HMAC path reads the pair as apiKey:signature, the Basic path as
// email:password.
func DecodeAuthorization(header string) (identifier, secret string, ok bool) {
	fields := strings.Fields(header)
	if len(fields) == 0 {
		return "", "", false
	}

	token := fields[len(fields)-1]
	decoded, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return "", "", false
	}

	identifier, secret, found := strings.Cut(string(decoded), ":")
	if !found || identifier == "" {
		return "", "", false
	}

	return identifier, secret, true
}
