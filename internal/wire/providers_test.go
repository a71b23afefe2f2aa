package wire

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mouselab/internal/config"
	"mouselab/internal/feed"
)

func TestProvideTokenIssuer_UsesConfiguredTTL(t *testing.T) {
	cfg := &config.Config{Session: config.SessionConfig{Secret: "s3cret", TTLHours: 2}}

	issuer := ProvideTokenIssuer(cfg)

	assert.Equal(t, 2*time.Hour, issuer.TTL())
	token, err := issuer.GenerateToken("pip")
	require.NoError(t, err)
	claims, err := issuer.ValidToken(token)
	require.NoError(t, err)
	assert.Equal(t, "pip", claims.LabID)
}

func TestProvideFeedHandlers_CarriesUploadLimits(t *testing.T) {
	cfg := &config.Config{
		Session: config.SessionConfig{Secret: "s3cret", CookieName: "lab", TTLHours: 1},
		Upload:  config.UploadConfig{MaxUploadBytes: 3 << 20},
	}
	svc := feed.NewFeedService(nil, nil, feed.NewWorkflow(), nil)

	h := ProvideFeedHandlers(svc, ProvideTokenIssuer(cfg), cfg)

	assert.Equal(t, "lab", h.CookieName)
	assert.Equal(t, int64(3<<20), h.MaxUploadBytes)
	assert.Same(t, svc, h.FeedSvc)
}

func TestProvideConfig_RefusesDefaultSecretInProduction(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("SESSION_SECRET", "")

	cfg, err := ProvideConfig()
	assert.Nil(t, cfg)
	assert.True(t, errors.Is(err, config.ErrDefaultSecret))

	t.Setenv("SESSION_SECRET", "a-real-secret")
	cfg, err = ProvideConfig()
	require.NoError(t, err)
	assert.Equal(t, "a-real-secret", cfg.Session.Secret)
}
