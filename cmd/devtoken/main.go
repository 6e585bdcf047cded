// AngelaMos | 2026
// main.go

// devtoken mints identity tokens signed with a local key so the API can be
// exercised without the hosted identity provider. Point
// IDENTITY_PUBLIC_KEY_PATH at the generated public key, or run with
// -serve-jwks and point IDENTITY_JWKS_URL at the printed address.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/oonkoo/dashboard-api/internal/auth"
	"github.com/oonkoo/dashboard-api/internal/config"
	"github.com/oonkoo/dashboard-api/internal/middleware"
)

func main() {
	var (
		keygen     = flag.Bool("keygen", false, "generate a new ES256 key pair and exit")
		privateKey = flag.String("private-key", "keys/identity_private.pem", "ES256 private key")
		publicKey  = flag.String("public-key", "keys/identity_public.pem", "ES256 public key (keygen only)")
		issuer     = flag.String("issuer", "oonkoo-identity", "token issuer")
		audience   = flag.String("audience", "oonkoo-dashboard", "token audience")
		email      = flag.String("email", "", "identity email")
		name       = flag.String("name", "", "display name claim")
		picture    = flag.String("picture", "", "avatar URL claim")
		ttl        = flag.Duration("ttl", 24*time.Hour, "token lifetime")
		serveJWKS  = flag.String("serve-jwks", "", "after minting, serve the public JWKS on this address")
	)
	flag.Parse()

	if err := run(*keygen, *privateKey, *publicKey, config.IdentityConfig{
		Issuer:   *issuer,
		Audience: *audience,
	}, middleware.Identity{
		Email:   *email,
		Name:    *name,
		Picture: *picture,
	}, *ttl, *serveJWKS); err != nil {
		slog.Error("devtoken failed", "error", err)
		os.Exit(1)
	}
}

func run(
	keygen bool,
	privateKey, publicKey string,
	cfg config.IdentityConfig,
	identity middleware.Identity,
	ttl time.Duration,
	jwksAddr string,
) error {
	if keygen {
		for _, path := range []string{privateKey, publicKey} {
			if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
				return fmt.Errorf("create key directory: %w", err)
			}
		}
		if err := auth.GenerateKeyPair(privateKey, publicKey); err != nil {
			return err
		}
		slog.Info("key pair written", "private", privateKey, "public", publicKey)
		return nil
	}

	if identity.Email == "" {
		return fmt.Errorf("-email is required")
	}

	iss, err := auth.NewIdentityIssuer(cfg, privateKey)
	if err != nil {
		return err
	}

	token, err := iss.Issue(identity, ttl)
	if err != nil {
		return err
	}

	fmt.Println(token)

	if jwksAddr == "" {
		return nil
	}
	return serveKeys(iss, jwksAddr)
}

const jwksPath = "/.well-known/jwks.json"

func serveKeys(iss *auth.IdentityIssuer, addr string) error {
	r := chi.NewRouter()
	r.Get(jwksPath, iss.JWKSHandler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("serving jwks", "url", "http://"+addr+jwksPath)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve jwks: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
