package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := fromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, 600*time.Second, cfg.Cache.TTL)
	assert.False(t, cfg.Redis.Enabled)
	assert.True(t, cfg.DB.AutoMigrate)
	assert.True(t, cfg.DB.ForceIPv4)
	assert.Equal(t, "8.8.8.8:53", cfg.DB.FallbackDNS)
	assert.Empty(t, cfg.Notify.SiteAdmins)
}

func TestFromViper_Overrides(t *testing.T) {
	v := viper.New()
	v.Set("HTTP_PORT", "9090")
	v.Set("REDIS_ENABLED", "true")
	v.Set("CACHE_TTL_SECONDS", "30")
	v.Set("NOTIFY_SITE_ADMINS", "wh:u1, b1:u2,wh:u3")
	v.Set("DB_PORT", "no-es-numero")

	cfg, err := fromViper(v)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, 30*time.Second, cfg.Cache.TTL)
	assert.Equal(t, 5432, cfg.DB.Port, "valor inválido cae al default")
	assert.Equal(t, []string{"u1", "u3"}, cfg.Notify.SiteAdmins["wh"])
	assert.Equal(t, []string{"u2"}, cfg.Notify.SiteAdmins["b1"])
}

func TestParseSiteAdmins_Invalido(t *testing.T) {
	_, err := ParseSiteAdmins("wh-sin-usuario")
	assert.Error(t, err)
	_, err = ParseSiteAdmins(":u1")
	assert.Error(t, err)
}

func TestDBConfig_ConnectionString(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss:w", DBName: "farmacia", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%3Aw@db:5432/farmacia?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://x"
	assert.Equal(t, "postgres://x", c.ConnectionString())
}
