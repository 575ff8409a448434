// Package gate implements the access check guarding the search and audio
// endpoints. It is a capability check against a single configured token, not
// authentication: there is no identity, session, or expiry.
package gate

import (
	"crypto/subtle"
	"fmt"

	"github.com/BootlifeXu/youtube-server/internal/web"
)

// Gate validates client tokens and hands out the upstream credential.
type Gate struct {
	accessToken string
	apiKey      string
}

// New builds a gate for the configured access token. apiKey is the upstream
// YouTube credential released on a successful check; it is never sent to
// clients.
func New(accessToken, apiKey string) *Gate {
	return &Gate{accessToken: accessToken, apiKey: apiKey}
}

// Authorize compares the supplied token in constant time against the
// configured one. On mismatch it returns ErrUnauthorized and no upstream call
// may be made.
func (g *Gate) Authorize(supplied string) (string, error) {
	if subtle.ConstantTimeCompare([]byte(supplied), []byte(g.accessToken)) != 1 {
		return "", fmt.Errorf("access token mismatch: %w", web.ErrUnauthorized)
	}
	return g.apiKey, nil
}
