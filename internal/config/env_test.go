package config

import (
	"strings"
	"testing"
)

func TestLoadEnvFailsWithoutCredentials(t *testing.T) {
	for _, k := range []string{"TELEGRAM_BOT_TOKEN", "TWILIO_ACCOUNT_SID", "TWILIO_AUTH_TOKEN", "TWILIO_VERIFY_SID"} {
		t.Setenv(k, "")
	}
	_, err := LoadEnv()
	if err == nil {
		t.Fatalf("expected error when credentials are missing")
	}
	if !strings.Contains(err.Error(), "TELEGRAM_BOT_TOKEN") {
		t.Fatalf("error should name missing vars, got: %v", err)
	}
}

func TestLoadEnvDefaults(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "tok")
	t.Setenv("TWILIO_ACCOUNT_SID", "sid")
	t.Setenv("TWILIO_AUTH_TOKEN", "auth")
	t.Setenv("TWILIO_VERIFY_SID", "verify")
	t.Setenv("SESSION_TTL_MINUTES", "10")

	env, err := LoadEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if env.AppAddr != ":8080" {
		t.Fatalf("default addr wrong: %s", env.AppAddr)
	}
	if env.DBName != "museum_db" {
		t.Fatalf("default db name wrong: %s", env.DBName)
	}
	if env.SessionTTL.Minutes() != 10 {
		t.Fatalf("ttl override not applied: %v", env.SessionTTL)
	}
}
