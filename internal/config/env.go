package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Env struct {
	AppAddr string
	GinMode string

	DBUser string
	DBPass string
	DBHost string
	DBName string

	TelegramBotToken string
	TwilioAccountSID string
	TwilioAuthToken  string
	TwilioVerifySID  string

	// Bcrypt hash of the shared admin password.
	AdminPasswordHash string
	JWTSecret         string

	SessionTTL time.Duration
}

// LoadEnv reads process configuration. Transport and verification
// credentials are mandatory: running without them would silently drop
// every conversation, so startup must fail instead.
func LoadEnv() (Env, error) {
	env := Env{
		AppAddr: getenv("APP_ADDR", ":8080"),
		GinMode: strings.TrimSpace(os.Getenv("GIN_MODE")),

		DBUser: getenv("DB_USER", "root"),
		DBPass: strings.TrimSpace(os.Getenv("DB_PASS")),
		DBHost: getenv("DB_HOST", "127.0.0.1:3306"),
		DBName: getenv("DB_NAME", "museum_db"),

		TelegramBotToken: strings.TrimSpace(os.Getenv("TELEGRAM_BOT_TOKEN")),
		TwilioAccountSID: strings.TrimSpace(os.Getenv("TWILIO_ACCOUNT_SID")),
		TwilioAuthToken:  strings.TrimSpace(os.Getenv("TWILIO_AUTH_TOKEN")),
		TwilioVerifySID:  strings.TrimSpace(os.Getenv("TWILIO_VERIFY_SID")),

		AdminPasswordHash: strings.TrimSpace(os.Getenv("ADMIN_PASSWORD_HASH")),
		JWTSecret:         getenv("JWT_SECRET", ""),

		SessionTTL: 45 * time.Minute,
	}

	if v := strings.TrimSpace(os.Getenv("SESSION_TTL_MINUTES")); v != "" {
		if m, err := strconv.Atoi(v); err == nil && m > 0 {
			env.SessionTTL = time.Duration(m) * time.Minute
		}
	}

	missing := []string{}
	for _, kv := range []struct{ key, val string }{
		{"TELEGRAM_BOT_TOKEN", env.TelegramBotToken},
		{"TWILIO_ACCOUNT_SID", env.TwilioAccountSID},
		{"TWILIO_AUTH_TOKEN", env.TwilioAuthToken},
		{"TWILIO_VERIFY_SID", env.TwilioVerifySID},
	} {
		if kv.val == "" {
			missing = append(missing, kv.key)
		}
	}
	if len(missing) > 0 {
		return env, fmt.Errorf("missing required env: %s", strings.Join(missing, ", "))
	}
	return env, nil
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}
