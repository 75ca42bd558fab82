package config

import (
	"os"
	"strings"
	"time"

	pstrings "tapestry/pkg/platform/strings"
)

// Server captures process-level configuration. Built from environment
// variables so main stays lean.
type Server struct {
	Addr          string
	PostgresDSN   string
	KafkaBrokers  []string
	KafkaTopic    string
	RedisURL      string
	JWTSigningKey string
}

// MembershipCacheTTL bounds how long a resolved membership answer is reused.
var MembershipCacheTTL = 15 * time.Minute

// FromEnv builds a Server config from environment variables.
func FromEnv() Server {
	addr := os.Getenv("TAPESTRY_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	var brokers []string
	if raw := os.Getenv("TAPESTRY_KAFKA_BROKERS"); raw != "" {
		brokers = pstrings.DedupeAndTrim(strings.Split(raw, ","))
	}

	jwtSigningKey := os.Getenv("TAPESTRY_JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Development default; override in any real deployment.
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	return Server{
		Addr:          addr,
		PostgresDSN:   os.Getenv("TAPESTRY_POSTGRES_DSN"),
		KafkaBrokers:  brokers,
		KafkaTopic:    os.Getenv("TAPESTRY_KAFKA_TOPIC"),
		RedisURL:      os.Getenv("TAPESTRY_REDIS_URL"),
		JWTSigningKey: jwtSigningKey,
	}
}
