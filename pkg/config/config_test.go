package config_test

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/jhoicas/Granja-api/pkg/config"
)

func TestFromViper_ValoresPorDefecto(t *testing.T) {
	cfg := config.FromViper(viper.New())

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "granja-api", cfg.App.Name)
	assert.Equal(t, 5432, cfg.DB.Port)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.False(t, cfg.Inventory.AllowNegativeStock, "por defecto se rechaza stock negativo")
	assert.True(t, cfg.Metrics.Enabled)
	assert.False(t, cfg.Redis.Enabled())
}

func TestFromViper_LeeStringsDeEntorno(t *testing.T) {
	v := viper.New()
	v.Set("HTTP_PORT", "9090")
	v.Set("INVENTORY_ALLOW_NEGATIVE_STOCK", "true")
	v.Set("DB_AUTO_MIGRATE", "1")
	v.Set("REDIS_URL", "redis://localhost:6379/0")

	cfg := config.FromViper(v)

	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.True(t, cfg.Inventory.AllowNegativeStock)
	assert.True(t, cfg.DB.AutoMigrate)
	assert.True(t, cfg.Redis.Enabled())
}

func TestFromViper_EnteroInvalidoUsaDefault(t *testing.T) {
	v := viper.New()
	v.Set("HTTP_PORT", "no-es-numero")

	cfg := config.FromViper(v)
	assert.Equal(t, 8080, cfg.HTTP.Port)
}

func TestDSN_CodificaPassword(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "granja", Password: "p@ss/word", DBName: "granja", SSLMode: "disable"}
	assert.Equal(t, "postgres://granja:p%40ss%2Fword@db:5432/granja?sslmode=disable", c.DSN())

	c.DatabaseURL = "postgres://otra"
	assert.Equal(t, "postgres://otra", c.ConnectionString())
}

func TestValidate_AcumulaErrores(t *testing.T) {
	cfg := config.FromViper(viper.New())
	cfg.HTTP.Port = 0
	cfg.Redis.URL = "http://localhost"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 3, "JWT_SECRET, HTTP_PORT y REDIS_URL")
}

func TestValidate_ConfigCompletaEsValida(t *testing.T) {
	v := viper.New()
	v.Set("JWT_SECRET", "secreto")
	cfg := config.FromViper(v)

	assert.NoError(t, cfg.Validate())
}
