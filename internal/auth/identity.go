// AngelaMos | 2026
// identity.go

package auth

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/lestrrat-go/jwx/v3/jwt"

	"github.com/oonkoo/dashboard-api/internal/config"
	"github.com/oonkoo/dashboard-api/internal/core"
	"github.com/oonkoo/dashboard-api/internal/middleware"
)

const jwksRetryBackoff = 30 * time.Second

// IdentityVerifier checks ES256 tokens minted by the identity provider.
// Keys come either from a PEM public key or from a JWKS endpoint that is
// refetched every JWKSRefresh.
type IdentityVerifier struct {
	config config.IdentityConfig

	staticKey jwk.Key

	mu        sync.RWMutex
	keySet    jwk.Set
	fetchedAt time.Time
	fetch     func(ctx context.Context, url string) (jwk.Set, error)
}

func NewIdentityVerifier(cfg config.IdentityConfig) (*IdentityVerifier, error) {
	v := &IdentityVerifier{
		config: cfg,
		fetch: func(ctx context.Context, url string) (jwk.Set, error) {
			return jwk.Fetch(ctx, url)
		},
	}

	if cfg.JWKSURL != "" {
		return v, nil
	}

	publicPEM, err := os.ReadFile(cfg.PublicKeyPath)
	if err != nil {
		return nil, fmt.Errorf("read identity public key: %w", err)
	}

	key, err := jwk.ParseKey(publicPEM, jwk.WithPEM(true))
	if err != nil {
		return nil, fmt.Errorf("parse identity public key: %w", err)
	}

	v.staticKey = key
	return v, nil
}

// NewIdentityVerifierWithKey builds a verifier around an already parsed key.
func NewIdentityVerifierWithKey(
	cfg config.IdentityConfig,
	key jwk.Key,
) *IdentityVerifier {
	return &IdentityVerifier{config: cfg, staticKey: key}
}

func (v *IdentityVerifier) VerifyIdentity(
	ctx context.Context,
	tokenString string,
) (*middleware.Identity, error) {
	keyOpt, err := v.keyOption(ctx)
	if err != nil {
		return nil, err
	}

	opts := []jwt.ParseOption{
		keyOpt,
		jwt.WithValidate(true),
		jwt.WithAcceptableSkew(v.config.AcceptableSkew),
	}
	if v.config.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.config.Issuer))
	}
	if v.config.Audience != "" {
		opts = append(opts, jwt.WithAudience(v.config.Audience))
	}

	token, err := jwt.Parse([]byte(tokenString), opts...)
	if err != nil {
		if isTokenExpiredError(err) {
			return nil, fmt.Errorf("verify identity: %w", core.ErrTokenExpired)
		}
		return nil, fmt.Errorf("verify identity: %w", core.ErrTokenInvalid)
	}

	var email string
	if err := token.Get("email", &email); err != nil || email == "" {
		return nil, fmt.Errorf(
			"verify identity: missing email claim: %w",
			core.ErrTokenInvalid,
		)
	}

	identity := &middleware.Identity{Email: email}
	if sub, ok := token.Subject(); ok {
		identity.Subject = sub
	}
	if jti, ok := token.JwtID(); ok {
		identity.TokenID = jti
	}
	if exp, ok := token.Expiration(); ok {
		identity.ExpiresAt = exp
	}
	//nolint:errcheck // optional profile claims
	_ = token.Get("name", &identity.Name)
	//nolint:errcheck // optional profile claims
	_ = token.Get("picture", &identity.Picture)

	return identity, nil
}

func (v *IdentityVerifier) keyOption(ctx context.Context) (jwt.ParseOption, error) {
	if v.staticKey != nil {
		return jwt.WithKey(jwa.ES256(), v.staticKey), nil
	}

	set, err := v.currentKeySet(ctx)
	if err != nil {
		return nil, fmt.Errorf("load identity keys: %w", err)
	}
	return jwt.WithKeySet(set), nil
}

func (v *IdentityVerifier) currentKeySet(ctx context.Context) (jwk.Set, error) {
	v.mu.RLock()
	set, fetchedAt := v.keySet, v.fetchedAt
	v.mu.RUnlock()

	if set != nil && time.Since(fetchedAt) < v.config.JWKSRefresh {
		return set, nil
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	if v.keySet != nil && time.Since(v.fetchedAt) < v.config.JWKSRefresh {
		return v.keySet, nil
	}

	fresh, err := v.fetch(ctx, v.config.JWKSURL)
	if err != nil {
		// keep serving the previous set and retry after jwksRetryBackoff
		if v.keySet != nil {
			v.fetchedAt = time.Now().Add(jwksRetryBackoff - v.config.JWKSRefresh)
			return v.keySet, nil
		}
		return nil, err
	}

	v.keySet = fresh
	v.fetchedAt = time.Now()
	return fresh, nil
}

func isTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, jwt.TokenExpiredError()) {
		return true
	}
	errStr := err.Error()
	return strings.Contains(errStr, "exp") &&
		strings.Contains(errStr, "not satisfied")
}

// IdentityIssuer mints identity tokens. Production tokens come from the
// provider; this exists for local development and tests.
type IdentityIssuer struct {
	privateKey jwk.Key
	publicJWKS jwk.Set
	config     config.IdentityConfig
}

func NewIdentityIssuer(
	cfg config.IdentityConfig,
	privateKeyPath string,
) (*IdentityIssuer, error) {
	privateKeyPEM, err := os.ReadFile(privateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("read private key: %w", err)
	}

	privateKey, err := jwk.ParseKey(privateKeyPEM, jwk.WithPEM(true))
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}

	return newIdentityIssuer(cfg, privateKey)
}

func NewIdentityIssuerFromECDSA(
	cfg config.IdentityConfig,
	key *ecdsa.PrivateKey,
) (*IdentityIssuer, error) {
	privateKey, err := jwk.Import(key)
	if err != nil {
		return nil, fmt.Errorf("import private key: %w", err)
	}
	return newIdentityIssuer(cfg, privateKey)
}

func newIdentityIssuer(
	cfg config.IdentityConfig,
	privateKey jwk.Key,
) (*IdentityIssuer, error) {
	if err := privateKey.Set(jwk.AlgorithmKey, jwa.ES256()); err != nil {
		return nil, fmt.Errorf("set algorithm: %w", err)
	}

	if _, ok := privateKey.KeyID(); !ok {
		keyID := uuid.New().String()[:8]
		if err := privateKey.Set(jwk.KeyIDKey, keyID); err != nil {
			return nil, fmt.Errorf("set key id: %w", err)
		}
	}

	publicKey, err := privateKey.PublicKey()
	if err != nil {
		return nil, fmt.Errorf("derive public key: %w", err)
	}

	if err := publicKey.Set(jwk.KeyUsageKey, "sig"); err != nil {
		return nil, fmt.Errorf("set key usage: %w", err)
	}

	publicJWKS := jwk.NewSet()
	if err := publicJWKS.AddKey(publicKey); err != nil {
		return nil, fmt.Errorf("add key to set: %w", err)
	}

	return &IdentityIssuer{
		privateKey: privateKey,
		publicJWKS: publicJWKS,
		config:     cfg,
	}, nil
}

func (i *IdentityIssuer) Issue(
	identity middleware.Identity,
	ttl time.Duration,
) (string, error) {
	now := time.Now()

	subject := identity.Subject
	if subject == "" {
		subject = uuid.New().String()
	}

	builder := jwt.NewBuilder().
		JwtID(uuid.New().String()).
		Subject(subject).
		IssuedAt(now).
		NotBefore(now).
		Expiration(now.Add(ttl)).
		Claim("email", identity.Email)

	if i.config.Issuer != "" {
		builder = builder.Issuer(i.config.Issuer)
	}
	if i.config.Audience != "" {
		builder = builder.Audience([]string{i.config.Audience})
	}
	if identity.Name != "" {
		builder = builder.Claim("name", identity.Name)
	}
	if identity.Picture != "" {
		builder = builder.Claim("picture", identity.Picture)
	}

	token, err := builder.Build()
	if err != nil {
		return "", fmt.Errorf("build token: %w", err)
	}

	signed, err := jwt.Sign(token, jwt.WithKey(jwa.ES256(), i.privateKey))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return string(signed), nil
}

func (i *IdentityIssuer) PublicKey() jwk.Key {
	key, _ := i.publicJWKS.Key(0)
	return key
}

func (i *IdentityIssuer) JWKSHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "public, max-age=3600")

		if err := json.NewEncoder(w).Encode(i.publicJWKS); err != nil {
			http.Error(
				w,
				"Internal Server Error",
				http.StatusInternalServerError,
			)
		}
	}
}

func GenerateKeyPair(privateKeyPath, publicKeyPath string) error {
	privateKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return fmt.Errorf("generate key: %w", err)
	}

	jwkPrivate, err := jwk.Import(privateKey)
	if err != nil {
		return fmt.Errorf("import private key: %w", err)
	}

	keyID := uuid.New().String()[:8]
	if setErr := jwkPrivate.Set(jwk.KeyIDKey, keyID); setErr != nil {
		return fmt.Errorf("set key id: %w", setErr)
	}
	if setErr := jwkPrivate.Set(jwk.AlgorithmKey, jwa.ES256()); setErr != nil {
		return fmt.Errorf("set algorithm: %w", setErr)
	}

	privatePEM, err := jwk.Pem(jwkPrivate)
	if err != nil {
		return fmt.Errorf("encode private key: %w", err)
	}

	if writeErr := os.WriteFile(privateKeyPath, privatePEM, 0o600); writeErr != nil {
		return fmt.Errorf("write private key: %w", writeErr)
	}

	jwkPublic, err := jwkPrivate.PublicKey()
	if err != nil {
		return fmt.Errorf("derive public key: %w", err)
	}

	publicPEM, err := jwk.Pem(jwkPublic)
	if err != nil {
		return fmt.Errorf("encode public key: %w", err)
	}

	//nolint:gosec // G306: public key is world-readable
	if writeErr := os.WriteFile(publicKeyPath, publicPEM, 0o644); writeErr != nil {
		return fmt.Errorf("write public key: %w", writeErr)
	}

	return nil
}
