package types

type Config struct {
	Environment     string `envconfig:"ENVIRONMENT" default:"development"`
	ServerPort      uint   `envconfig:"SERVER_PORT" default:"8080"`
	ReadTimeoutSec  uint   `envconfig:"READ_TIMEOUT_SEC" default:"10"`
	WriteTimeoutSec uint   `envconfig:"WRITE_TIMEOUT_SEC" default:"15"`

	// Record store backend: memory, redis or postgres
	StorageBackend string `envconfig:"STORAGE_BACKEND" default:"memory"`
	DatabaseURL    string `envconfig:"DATABASE_URL"`
	RedisAddr      string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	RedisPassword  string `envconfig:"REDIS_PASSWORD"`
	RedisDB        int    `envconfig:"REDIS_DB" default:"0"`

	// Legacy gazette API the portal fronts
	UpstreamBaseURL  string `envconfig:"UPSTREAM_BASE_URL"`
	UpstreamAppType  string `envconfig:"UPSTREAM_APP_TYPE"`
	UpstreamAPIToken string `envconfig:"UPSTREAM_API_TOKEN"`

	// Supporting document storage
	DocumentBucket string `envconfig:"DOCUMENT_BUCKET" default:"egazette-documents"`
	AWSRegion      string `envconfig:"AWS_REGION" default:"eu-west-1"`

	// Stripe checkout
	StripeSecretKey  string `envconfig:"STRIPE_SECRET_KEY"`
	PaymentReturnURL string `envconfig:"PAYMENT_RETURN_URL" default:"http://localhost:8080/payments/return"`
	PaymentCancelURL string `envconfig:"PAYMENT_CANCEL_URL" default:"http://localhost:8080/payments/cancelled"`

	// Cookie encryption keys (base64 encoded)
	// openssl rand -base64 32
	// to generate values
	CookieHashKey  string `envconfig:"COOKIE_HASH_KEY"`  // 32 or 64 bytes
	CookieBlockKey string `envconfig:"COOKIE_BLOCK_KEY"` // 16, 24, or 32 bytes
}
