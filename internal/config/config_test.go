package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_FromEnvFile(t *testing.T) {
	// Given
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	content := "DATA_SOURCE=sheets\n" +
		"GOOGLE_SHEETS_CREDENTIALS_PATH=/tmp/creds.json\n" +
		"GOOGLE_SHEET_DATABASE_ID=sheet-123\n" +
		"FARM_OWNER_ID=owner-1\n" +
		"REPORT_PERIOD_DAYS=30\n"
	require.NoError(t, os.WriteFile(envFile, []byte(content), 0o600))
	for _, key := range []string{"DATA_SOURCE", "GOOGLE_SHEETS_CREDENTIALS_PATH", "GOOGLE_SHEET_DATABASE_ID", "FARM_OWNER_ID", "REPORT_PERIOD_DAYS"} {
		t.Setenv(key, "")
		// godotenv does not override variables that are already set
		require.NoError(t, os.Unsetenv(key))
	}

	// When
	cfg, err := Load(envFile)

	// Then
	require.NoError(t, err)
	assert.Equal(t, SourceSheets, cfg.Farm.DataSource)
	assert.Equal(t, "owner-1", cfg.Farm.OwnerID)
	assert.Equal(t, "sheet-123", cfg.Sheets.SpreadsheetID)
	assert.Equal(t, 30, cfg.Reporting.PeriodDays)
	assert.Equal(t, "8080", cfg.Server.Port)
}

func TestLoad_InvalidPeriodDays(t *testing.T) {
	t.Setenv("REPORT_PERIOD_DAYS", "weekly")

	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "REPORT_PERIOD_DAYS")
}

func validConfig() *Config {
	return &Config{
		Server:    ServerConfig{Port: "8080"},
		Farm:      FarmConfig{DataSource: SourceMongo},
		MongoDB:   MongoDBConfig{URI: "mongodb://localhost:27017", DBName: "farmcost"},
		Reporting: ReportingConfig{CronSchedule: "0 7 * * 1", Timezone: "UTC", PeriodDays: 7},
		WhatsApp: WhatsAppConfig{
			AccessToken:   "token",
			PhoneNumberID: "123",
			VerifyToken:   "verify",
			BaseURL:       "https://graph.facebook.com",
			APIVersion:    "v20.0",
			ManagerNumber: "5511999999999",
		},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid mongo", func(c *Config) {}, ""},
		{"missing port", func(c *Config) { c.Server.Port = "" }, "APP_PORT must be provided"},
		{"missing mongo uri", func(c *Config) { c.MongoDB.URI = "" }, "MONGODB_URI must be provided"},
		{"sheets without credentials", func(c *Config) { c.Farm.DataSource = SourceSheets }, "GOOGLE_SHEETS_CREDENTIALS_PATH must be provided"},
		{"unknown source", func(c *Config) { c.Farm.DataSource = "postgres" }, "DATA_SOURCE must be"},
		{"non positive period", func(c *Config) { c.Reporting.PeriodDays = 0 }, "REPORT_PERIOD_DAYS must be positive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()

			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateMessaging(t *testing.T) {
	cfg := validConfig()
	assert.NoError(t, cfg.ValidateMessaging())

	cfg.WhatsApp.ManagerNumber = ""
	assert.EqualError(t, cfg.ValidateMessaging(), "WHATSAPP_MANAGER_NUMBER must be provided")

	cfg = validConfig()
	cfg.WhatsApp.AccessToken = ""
	assert.EqualError(t, cfg.ValidateMessaging(), "WHATSAPP_TOKEN must be provided")
}

func TestValidate_NilConfig(t *testing.T) {
	var cfg *Config
	assert.EqualError(t, cfg.Validate(), "config is nil")
}
