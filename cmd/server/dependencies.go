package main

import (
	"context"
	"fmt"

	"github.com/jrsteele09/go-identity-bridge/identity"
	"github.com/jrsteele09/go-identity-bridge/internal/config"
	"github.com/jrsteele09/go-identity-bridge/prediction"
	"github.com/jrsteele09/go-identity-bridge/profiles"
	"github.com/jrsteele09/go-identity-bridge/server"
	"github.com/jrsteele09/go-identity-bridge/sessions"
	"github.com/jrsteele09/go-identity-bridge/storage/postgres"
	"github.com/jrsteele09/go-identity-bridge/tasks"
	"github.com/jrsteele09/go-identity-bridge/token/keys"
	"github.com/rs/zerolog/log"
)

// buildDependencies wires every component from configuration.
// The returned func releases the secondary store.
func buildDependencies(ctx context.Context, c config.Config) (server.Dependencies, func(), error) {
	noop := func() {}

	verifier, err := identity.NewVerifier(ctx,
		c.GetIdentityIssuer(),
		c.GetIdentityAudience(),
		c.GetIdentityJWKSURL(),
		identity.WithLeeway(c.GetIdentityLeeway()),
		identity.WithTimeout(c.GetIdentityProviderTimeout()),
	)
	if err != nil {
		return server.Dependencies{}, noop, err
	}

	signer, err := keys.NewSigner(c.GetSessionKeyID(), c.GetSessionSigningKeyPEM(), c.GetSessionJWTSecret())
	if err != nil {
		return server.Dependencies{}, noop, fmt.Errorf("session signer: %w", err)
	}
	revoked, closeRevoked, err := openRevocationList(ctx, c)
	if err != nil {
		return server.Dependencies{}, noop, err
	}
	adapter := sessions.NewAdapter(signer,
		sessions.WithIssuer(c.GetSessionIssuer()),
		sessions.WithAudience(c.GetSessionAudience()),
		sessions.WithRole(c.GetSessionRole()),
		sessions.WithTTL(c.GetSessionTTL()),
		sessions.WithRevocationList(revoked),
	)

	profileRepo, taskRepo, closeStore, err := openStore(ctx, c)
	if err != nil {
		closeRevoked()
		return server.Dependencies{}, noop, err
	}

	bridge := profiles.NewBridge(profileRepo, profiles.WithStoreTimeout(c.GetStoreTimeout()))
	taskService := tasks.NewService(taskRepo, bridge, tasks.WithStoreTimeout(c.GetStoreTimeout()))

	predictor := prediction.NewClient(ctx, prediction.Config{
		URL:          c.GetPredictionURL(),
		APIKey:       c.GetPredictionAPIKey(),
		TokenURL:     c.GetPredictionTokenURL(),
		ClientID:     c.GetPredictionClientID(),
		ClientSecret: c.GetPredictionClientSecret(),
		Timeout:      c.GetPredictionTimeout(),
	}, nil)
	if c.GetPredictionURL() == "" {
		log.Warn().Msg("PREDICTION_URL not set, feature predictions will fail")
	}

	return server.Dependencies{
		Verifier:  verifier,
		Profiles:  bridge,
		Sessions:  adapter,
		Tasks:     taskService,
		Predictor: predictor,
	}, func() { closeStore(); closeRevoked() }, nil
}

func openRevocationList(ctx context.Context, c config.Config) (sessions.RevocationList, func(), error) {
	addr := c.GetRedisAddr()
	if addr == "" {
		log.Info().Msg("REDIS_ADDR not set, sign-outs are local to this instance")
		return sessions.NewInMemoryRevocationList(), func() {}, nil
	}

	client, err := sessions.NewRedisClient(ctx, addr, c.GetRedisPassword(), c.GetStoreTimeout())
	if err != nil {
		return nil, nil, err
	}
	log.Info().Str("addr", addr).Msg("using redis revocation list")
	closeClient := func() {
		if err := client.Close(); err != nil {
			log.Error().Err(err).Msg("closing redis")
		}
	}
	return sessions.NewRedisRevocationList(client), closeClient, nil
}

func openStore(ctx context.Context, c config.StoreConfig) (profiles.Repo, tasks.Repo, func(), error) {
	switch c.GetStoreDriver() {
	case config.StoreDriverMemory:
		log.Warn().Msg("using the in-memory store, data is lost on restart")
		return profiles.NewInMemoryRepo(), tasks.NewInMemoryRepo(), func() {}, nil

	case config.StoreDriverPostgres:
		db, err := postgres.Open(ctx, c.GetDatabaseURL(), c.GetStoreTimeout())
		if err != nil {
			return nil, nil, nil, err
		}
		if err := postgres.Migrate(ctx, db); err != nil {
			_ = db.Close()
			return nil, nil, nil, err
		}
		closeDB := func() {
			if err := db.Close(); err != nil {
				log.Error().Err(err).Msg("closing database")
			}
		}
		return profiles.NewPostgresRepo(db), tasks.NewPostgresRepo(db), closeDB, nil

	default:
		return nil, nil, nil, fmt.Errorf("unknown store driver %q", c.GetStoreDriver())
	}
}
