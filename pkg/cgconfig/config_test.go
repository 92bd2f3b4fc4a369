package cgconfig

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "text", cfg.OutputFormat)
	assert.Empty(t, cfg.SchemaPath)
	assert.False(t, cfg.ProcedureCatalog)
	assert.True(t, cfg.Validate())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("CYPHERGUARD_SCHEMA_PATH", "/tmp/schema.json")
	t.Setenv("CYPHERGUARD_OUTPUT_FORMAT", "json")
	t.Setenv("CYPHERGUARD_PROCEDURE_CATALOG", "true")

	cfg := LoadFromEnv()
	assert.Equal(t, "/tmp/schema.json", cfg.SchemaPath)
	assert.Equal(t, "json", cfg.OutputFormat)
	assert.True(t, cfg.ProcedureCatalog)
}

func TestLoadFromEnvDefaultsWhenUnset(t *testing.T) {
	os.Unsetenv("CYPHERGUARD_SCHEMA_PATH")
	os.Unsetenv("CYPHERGUARD_OUTPUT_FORMAT")
	os.Unsetenv("CYPHERGUARD_PROCEDURE_CATALOG")

	cfg := LoadFromEnv()
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestValidateRejectsUnknownFormat(t *testing.T) {
	cfg := &Config{OutputFormat: "xml"}
	assert.False(t, cfg.Validate())
}

func TestParseBoolVariants(t *testing.T) {
	assert.True(t, parseBool("TRUE", false))
	assert.True(t, parseBool("1", false))
	assert.True(t, parseBool("yes", false))
	assert.True(t, parseBool("on", false))
	assert.False(t, parseBool("FALSE", true))
	assert.False(t, parseBool("0", true))
	assert.False(t, parseBool("no", true))
	assert.False(t, parseBool("off", true))
	assert.True(t, parseBool("garbage", true))
	assert.False(t, parseBool("garbage", false))
}
