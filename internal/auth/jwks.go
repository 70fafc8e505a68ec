// File: internal/auth/jwks.go
package auth

import (
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ValidMethods are the signing algorithms accepted on incoming tokens.
var ValidMethods = []string{"EdDSA", "RS256", "ES256"}

var ErrUnknownKeyID = errors.New("signing key not found")

type jwk struct {
	Kty string `json:"kty"`
	Kid string `json:"kid"`
	Crv string `json:"crv"`
	X   string `json:"x"`
	Y   string `json:"y"`
	N   string `json:"n"`
	E   string `json:"e"`
}

type jwksDocument struct {
	Keys []jwk `json:"keys"`
}

// Client fetches and caches the auth service's JSON Web Key Set. Keys are
// cached by key ID; an unknown kid triggers one refetch, which covers key
// rotation without a background refresher.
type Client struct {
	jwksURL    string
	httpClient *http.Client

	mu   sync.RWMutex
	keys map[string]interface{}
}

func NewClient(authBaseURL string) *Client {
	return &Client{
		jwksURL:    authBaseURL + "/api/auth/jwks",
		httpClient: &http.Client{Timeout: 10 * time.Second},
		keys:       make(map[string]interface{}),
	}
}

// Keyfunc resolves the verification key for a parsed but unverified token.
// Pass it to jwt.Parse together with jwt.WithValidMethods(ValidMethods).
func (c *Client) Keyfunc(token *jwt.Token) (interface{}, error) {
	kid, _ := token.Header["kid"].(string)

	if key := c.cachedKey(kid); key != nil {
		return key, nil
	}

	if err := c.refresh(); err != nil {
		return nil, fmt.Errorf("fetching JWKS: %w", err)
	}

	if key := c.cachedKey(kid); key != nil {
		return key, nil
	}
	return nil, ErrUnknownKeyID
}

// cachedKey returns the key for kid, or any single cached key when the token
// carries no kid and exactly one key is known.
func (c *Client) cachedKey(kid string) interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if kid != "" {
		return c.keys[kid]
	}
	if len(c.keys) == 1 {
		for _, key := range c.keys {
			return key
		}
	}
	return nil
}

func (c *Client) refresh() error {
	resp, err := c.httpClient.Get(c.jwksURL)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("JWKS endpoint returned status %d", resp.StatusCode)
	}

	var doc jwksDocument
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return fmt.Errorf("decoding JWKS: %w", err)
	}

	keys := make(map[string]interface{}, len(doc.Keys))
	for _, k := range doc.Keys {
		key, err := parseJWK(k)
		if err != nil {
			// Skip keys we cannot use; other keys in the set may
			// still verify the token.
			continue
		}
		keys[k.Kid] = key
	}

	c.mu.Lock()
	c.keys = keys
	c.mu.Unlock()
	return nil
}

func parseJWK(k jwk) (interface{}, error) {
	switch k.Kty {
	case "OKP":
		if k.Crv != "Ed25519" {
			return nil, fmt.Errorf("unsupported OKP curve %q", k.Crv)
		}
		x, err := base64.RawURLEncoding.DecodeString(k.X)
		if err != nil {
			return nil, err
		}
		if len(x) != ed25519.PublicKeySize {
			return nil, errors.New("invalid Ed25519 key length")
		}
		return ed25519.PublicKey(x), nil

	case "RSA":
		n, err := base64.RawURLEncoding.DecodeString(k.N)
		if err != nil {
			return nil, err
		}
		e, err := base64.RawURLEncoding.DecodeString(k.E)
		if err != nil {
			return nil, err
		}
		return &rsa.PublicKey{
			N: new(big.Int).SetBytes(n),
			E: int(new(big.Int).SetBytes(e).Int64()),
		}, nil

	case "EC":
		if k.Crv != "P-256" {
			return nil, fmt.Errorf("unsupported EC curve %q", k.Crv)
		}
		x, err := base64.RawURLEncoding.DecodeString(k.X)
		if err != nil {
			return nil, err
		}
		y, err := base64.RawURLEncoding.DecodeString(k.Y)
		if err != nil {
			return nil, err
		}
		return &ecdsa.PublicKey{
			Curve: elliptic.P256(),
			X:     new(big.Int).SetBytes(x),
			Y:     new(big.Int).SetBytes(y),
		}, nil

	default:
		return nil, fmt.Errorf("unsupported key type %q", k.Kty)
	}
}

// SubjectFromClaims extracts the user ID from verified claims: "sub" first,
// then the legacy "id" claim.
func SubjectFromClaims(claims jwt.MapClaims) string {
	if sub, ok := claims["sub"].(string); ok && sub != "" {
		return sub
	}
	if id, ok := claims["id"].(string); ok && id != "" {
		return id
	}
	return ""
}
