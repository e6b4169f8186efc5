package app

import (
	"time"

	"github.com/planora/planora-backend/internal/platform/envutil"
	"github.com/planora/planora-backend/internal/platform/llm"
)

// Config is loaded once at startup and injected; nothing reads these env
// vars after construction.
type Config struct {
	HTTPPort string

	JWTSecretKey    string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	LLM llm.Config

	FreeTierPlanLimit int
	ProTierPlanLimit  int
}

func LoadConfig() Config {
	return Config{
		HTTPPort: envutil.Str("HTTP_PORT", "8080"),

		JWTSecretKey:    envutil.Str("JWT_SECRET_KEY", "defaultsecret"),
		AccessTokenTTL:  envutil.Seconds("ACCESS_TOKEN_TTL", 3600),
		RefreshTokenTTL: envutil.Seconds("REFRESH_TOKEN_TTL", 86400),

		LLM: llm.Config{
			BaseURL:     envutil.Str("LLM_BASE_URL", "https://api.openai.com/v1"),
			APIKey:      envutil.Str("LLM_API_KEY", ""),
			Model:       envutil.Str("LLM_MODEL", "gpt-4o-mini"),
			Temperature: envutil.Float("LLM_TEMPERATURE", 0.7),
			Timeout:     envutil.Seconds("LLM_TIMEOUT_SECONDS", 120),
		},

		FreeTierPlanLimit: envutil.Int("FREE_TIER_PLAN_LIMIT", 3),
		ProTierPlanLimit:  envutil.Int("PRO_TIER_PLAN_LIMIT", 50),
	}
}
