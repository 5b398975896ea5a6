package authctx

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"os"
)

// Transport header conventions shared by all adapter servers.
const (
	// HeaderToken carries a plain bearer token.
	HeaderToken = "x-auth-token"
	// HeaderData carries a base64-encoded JSON credential document with an
	// access_token or api_key field and optional user_id /
	// selected_cloud_id overrides.
	HeaderData = "x-auth-data"
)

// authData is the wire form of the HeaderData document.
type authData struct {
	AccessToken     string `json:"access_token"`
	APIKey          string `json:"api_key"`
	UserID          string `json:"user_id"`
	SelectedCloudID string `json:"selected_cloud_id"`
}

// FromHeaders extracts credentials from transport headers. A malformed
// header (invalid base64, invalid JSON) degrades to "no credential" rather
// than failing, so the dispatcher can produce a clean unauthorized result
// instead of dropping the connection.
func FromHeaders(h http.Header) (Credentials, bool) {
	if data := h.Get(HeaderData); data != "" {
		if creds, ok := decodeAuthData(data); ok {
			return creds, true
		}
	}
	if token := h.Get(HeaderToken); token != "" {
		return Credentials{Token: token}, true
	}
	return Credentials{}, false
}

func decodeAuthData(encoded string) (Credentials, bool) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return Credentials{}, false
	}
	var doc authData
	if err := json.Unmarshal(raw, &doc); err != nil {
		return Credentials{}, false
	}
	creds := Credentials{
		Token:   doc.AccessToken,
		APIKey:  doc.APIKey,
		UserID:  doc.UserID,
		CloudID: doc.SelectedCloudID,
	}
	return creds, !creds.IsZero()
}

// FromEnv reads the first non-empty value among the given environment
// variables as a token credential. Used by single-tenant deployments where
// no transport headers exist (stdio).
func FromEnv(vars ...string) (Credentials, bool) {
	for _, name := range vars {
		if v := os.Getenv(name); v != "" {
			return Credentials{Token: v}, true
		}
	}
	return Credentials{}, false
}

// Resolve applies the extraction chain for one inbound request: transport
// headers win over environment variables, which win over the OS keyring
// entry for the named provider. The second return is false when no source
// produced a credential.
func Resolve(h http.Header, provider string, envVars ...string) (Credentials, bool) {
	if h != nil {
		if creds, ok := FromHeaders(h); ok {
			return creds, true
		}
	}
	if creds, ok := FromEnv(envVars...); ok {
		return creds, true
	}
	return FromKeyring(provider)
}
