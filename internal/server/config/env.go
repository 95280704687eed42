package config

import (
	"os"
	"strconv"
	"time"

	"github.com/dmitrijs2005/biscotto/internal/flagx"
	"github.com/joho/godotenv"
)

// parseEnv overlays Config with environment variables. A dotenv file given
// with -env (or ./.env when present) is loaded first; variables already set
// in the process environment win over the file.
//
// Recognised variables:
//
//	PORT, GRPC_HEALTH_ADDR, DATABASE_URL, JWT_SECRET, TOKEN_TTL,
//	S3_ACCESS_KEY, S3_SECRET_KEY, S3_BUCKET, S3_REGION, S3_ENDPOINT, S3_PUBLIC_URL,
//	FRONTEND_URL, APP_ENV, REDIS_ADDR, NOTIFIER, SMTP_HOST, SMTP_PORT,
//	SMTP_USER, SMTP_PASSWORD, SMTP_FROM, ADMIN_EMAIL, ADMIN_PASSWORD,
//	ORPHAN_SWEEP_SCHEDULE, RATE_LIMIT_PER_MINUTE, LOG_LEVEL
//
// A malformed .env file or an unparsable number panics, matching the JSON
// loader's treatment of bad input.
func parseEnv(config *Config) {
	if file := flagx.EnvFileFlag(); file != "" {
		if err := godotenv.Load(file); err != nil {
			panic(err)
		}
	} else if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			panic(err)
		}
	}

	if v, ok := os.LookupEnv("PORT"); ok && v != "" {
		config.EndpointAddrHTTP = ":" + v
	}
	setString(&config.EndpointAddrGRPC, "GRPC_HEALTH_ADDR")
	setString(&config.DatabaseDSN, "DATABASE_URL")
	setString(&config.SecretKey, "JWT_SECRET")
	if v, ok := os.LookupEnv("TOKEN_TTL"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			panic(err)
		}
		config.TokenValidityDuration = d
	}
	setString(&config.S3AccessKey, "S3_ACCESS_KEY")
	setString(&config.S3SecretKey, "S3_SECRET_KEY")
	setString(&config.S3Bucket, "S3_BUCKET")
	setString(&config.S3Region, "S3_REGION")
	setString(&config.S3BaseEndpoint, "S3_ENDPOINT")
	setString(&config.S3PublicURL, "S3_PUBLIC_URL")
	setString(&config.FrontendURL, "FRONTEND_URL")
	setString(&config.Environment, "APP_ENV")
	setString(&config.RedisAddr, "REDIS_ADDR")
	setString(&config.Notifier, "NOTIFIER")
	setString(&config.SMTPHost, "SMTP_HOST")
	setInt(&config.SMTPPort, "SMTP_PORT")
	setString(&config.SMTPUser, "SMTP_USER")
	setString(&config.SMTPPassword, "SMTP_PASSWORD")
	setString(&config.SMTPFrom, "SMTP_FROM")
	setString(&config.AdminEmail, "ADMIN_EMAIL")
	setString(&config.AdminPassword, "ADMIN_PASSWORD")
	setString(&config.OrphanSweepSchedule, "ORPHAN_SWEEP_SCHEDULE")
	setInt(&config.RateLimitPerMinute, "RATE_LIMIT_PER_MINUTE")
	setString(&config.LogLevel, "LOG_LEVEL")
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		panic(err)
	}
	*dst = n
}
