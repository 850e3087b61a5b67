package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ridwanfathin/invoice-generator-service/internal/domain"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 15*time.Second, cfg.ReadTimeout)
	assert.Equal(t, "INV/SNC", cfg.InvoicePrefix)
	assert.Equal(t, CounterFile, cfg.CounterBackend)
	assert.Equal(t, "A4", cfg.PDFPageFormat)
	assert.InDelta(t, 0.3, cfg.PDFMarginInches, 1e-9)
	assert.True(t, cfg.PDFCompress)
	assert.False(t, cfg.S3Enabled())
	assert.Equal(t, domain.DefaultCompanyProfile(), cfg.CompanyProfile())
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PORT", "9090")
	t.Setenv("COUNTER_BACKEND", " SQLite ")
	t.Setenv("PDF_COMPRESS", "false")
	t.Setenv("S3_ENDPOINT", "http://minio:9000")
	t.Setenv("S3_ACCESS_KEY_ID", "key")
	t.Setenv("S3_ACCESS_KEY_SECRET", "secret")
	t.Setenv("S3_BUCKET", "exports")
	t.Setenv("COMPANY_NAME", "PT Contoh")
	t.Setenv("COMPANY_ADDRESS", "Jl. Satu|Bandung")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, CounterSQLite, cfg.CounterBackend)
	assert.False(t, cfg.PDFCompress)
	assert.True(t, cfg.S3Enabled())

	profile := cfg.CompanyProfile()
	assert.Equal(t, "PT Contoh", profile.Name)
	assert.Equal(t, []string{"Jl. Satu", "Bandung"}, profile.AddressLines)
	assert.Equal(t, domain.DefaultCompanyProfile().NPWP, profile.NPWP)
}

func TestLoadConfigRejectsBadBackend(t *testing.T) {
	t.Chdir(t.TempDir())

	t.Setenv("COUNTER_BACKEND", "redis")
	_, err := LoadConfig()
	assert.ErrorContains(t, err, "unknown COUNTER_BACKEND")

	t.Setenv("COUNTER_BACKEND", "postgres")
	_, err = LoadConfig()
	assert.ErrorContains(t, err, "POSTGRES_DB_URL")

	t.Setenv("PORT", "not-a-number")
	t.Setenv("COUNTER_BACKEND", "memory")
	_, err = LoadConfig()
	assert.Error(t, err)
}
