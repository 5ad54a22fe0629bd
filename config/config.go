package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`
	CORSOrigins       string `mapstructure:"CORS_ORIGINS"`
	// Comma separated proxy addresses or CIDRs allowed to set X-Forwarded-For.
	TrustedProxies string `mapstructure:"TRUSTED_PROXIES"`

	// MongoDB.
	DatabaseURL  string `mapstructure:"DATABASE_URL"`
	DatabaseName string `mapstructure:"DATABASE_NAME"`

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB  int    `mapstructure:"REDIS_CACHE_DB"`
	RedisQueueDB  int    `mapstructure:"REDIS_QUEUE_DB"`

	// Stripe.
	StripeSecretKey         string `mapstructure:"STRIPE_SECRET_KEY"`
	StripeWebhookSecret     string `mapstructure:"STRIPE_WEBHOOK_SECRET"`
	StripePriceBasic        string `mapstructure:"STRIPE_PRICE_BASIC"`
	StripePricePro          string `mapstructure:"STRIPE_PRICE_PRO"`
	CheckoutSuccessURL      string `mapstructure:"CHECKOUT_SUCCESS_URL"`
	CheckoutCancelURL       string `mapstructure:"CHECKOUT_CANCEL_URL"`
	BillingCustomerStrategy string `mapstructure:"BILLING_CUSTOMER_STRATEGY"`

	// Identity. AUTH_MODE is "firebase" or "jwt".
	AuthMode                string `mapstructure:"AUTH_MODE"`
	FirebaseProjectID       string `mapstructure:"FIREBASE_PROJECT_ID"`
	FirebaseCredentialsFile string `mapstructure:"FIREBASE_CREDENTIALS_FILE"`
	JWTSecret               string `mapstructure:"JWT_SECRET"`
	SessionCookieName       string `mapstructure:"SESSION_COOKIE_NAME"`

	// Cloudinary.
	CloudinaryCloudName string `mapstructure:"CLOUDINARY_CLOUD_NAME"`
	CloudinaryAPIKey    string `mapstructure:"CLOUDINARY_API_KEY"`
	CloudinaryAPISecret string `mapstructure:"CLOUDINARY_API_SECRET"`
}

var defaults = map[string]any{
	"APP_PORT":                  "8080",
	"ENV":                       "development",
	"LOG_LEVEL":                 "info",
	"MAX_REQUESTS_PER_MIN":      200,
	"CORS_ORIGINS":              "*",
	"TRUSTED_PROXIES":           "",
	"DATABASE_URL":              "mongodb://localhost:27017",
	"DATABASE_NAME":             "garagedesk",
	"REDIS_ADDR":                "localhost:6379",
	"REDIS_PASSWORD":            "",
	"REDIS_CACHE_DB":            0,
	"REDIS_QUEUE_DB":            1,
	"STRIPE_SECRET_KEY":         "",
	"STRIPE_WEBHOOK_SECRET":     "",
	"STRIPE_PRICE_BASIC":        "",
	"STRIPE_PRICE_PRO":          "",
	"CHECKOUT_SUCCESS_URL":      "http://localhost:3000/dashboard/billing?checkout=success",
	"CHECKOUT_CANCEL_URL":       "http://localhost:3000/pricing?checkout=canceled",
	"BILLING_CUSTOMER_STRATEGY": "reuse",
	"AUTH_MODE":                 "firebase",
	"FIREBASE_PROJECT_ID":       "",
	"FIREBASE_CREDENTIALS_FILE": "",
	"JWT_SECRET":                "",
	"SESSION_COOKIE_NAME":       "session",
	"CLOUDINARY_CLOUD_NAME":     "",
	"CLOUDINARY_API_KEY":        "",
	"CLOUDINARY_API_SECRET":     "",
}

// Load reads .env (if present), config.yaml (if present) and the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables only")
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AutomaticEnv()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if err := v.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// IsProduction checks if the environment is production.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Validate reports every required setting that is missing for the current
// environment and auth mode.
func (c *Config) Validate() error {
	var missing []string
	require := func(key, value string) {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, key)
		}
	}

	require("DATABASE_URL", c.DatabaseURL)
	require("REDIS_ADDR", c.RedisAddr)

	switch c.AuthMode {
	case "firebase":
		require("FIREBASE_PROJECT_ID", c.FirebaseProjectID)
	case "jwt":
		require("JWT_SECRET", c.JWTSecret)
		if c.IsProduction() {
			return fmt.Errorf("AUTH_MODE=jwt is not allowed in production")
		}
	default:
		return fmt.Errorf("unsupported AUTH_MODE %q", c.AuthMode)
	}

	switch c.BillingCustomerStrategy {
	case "reuse", "create":
	default:
		return fmt.Errorf("unsupported BILLING_CUSTOMER_STRATEGY %q", c.BillingCustomerStrategy)
	}

	if c.IsProduction() {
		require("STRIPE_SECRET_KEY", c.StripeSecretKey)
		require("STRIPE_WEBHOOK_SECRET", c.StripeWebhookSecret)
		require("STRIPE_PRICE_BASIC", c.StripePriceBasic)
		require("STRIPE_PRICE_PRO", c.StripePricePro)
		require("CLOUDINARY_CLOUD_NAME", c.CloudinaryCloudName)
		require("CLOUDINARY_API_KEY", c.CloudinaryAPIKey)
		require("CLOUDINARY_API_SECRET", c.CloudinaryAPISecret)
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}

// AllowedOrigins splits CORS_ORIGINS on commas.
func (c *Config) AllowedOrigins() []string {
	if out := splitList(c.CORSOrigins); len(out) > 0 {
		return out
	}
	return []string{"*"}
}

// TrustedProxyList splits TRUSTED_PROXIES. Empty means forwarded headers
// are ignored and the peer address is the client.
func (c *Config) TrustedProxyList() []string {
	return splitList(c.TrustedProxies)
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
