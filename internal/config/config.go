package config

import "fmt"

// Configはアプリ全体の設定（環境変数から読む）
type Config struct {
	Port string `env:"PORT" envDefault:"8080"`

	// DATABASE_URLがあれば最優先で使う
	DatabaseURL string `env:"DATABASE_URL"`

	PostgresUser     string `env:"POSTGRES_USER"`
	PostgresPassword string `env:"POSTGRES_PASSWORD"`
	PostgresDB       string `env:"POSTGRES_DB" envDefault:"animehub"`
	PostgresHost     string `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort     string `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresSSLMode  string `env:"POSTGRES_SSLMODE" envDefault:"disable"`

	JWTSecret string `env:"JWT_SECRET"`

	// CORSで許可するオリジン（カンマ区切り）
	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"*"`

	Stripe Stripe `envPrefix:"STRIPE_"`
}

// Stripeはホステッドチェックアウトの接続情報。
// APIKeyが未設定でも起動は止めない（チェックアウト時に500を返す仕様）。
type Stripe struct {
	BaseAPIURL    string `env:"BASE_API_URL" envDefault:"https://api.stripe.com"`
	APIKey        string `env:"API_KEY"`
	WebhookSecret string `env:"WEBHOOK_SECRET"`
}

// 必須チェック
func (c Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.DatabaseURL == "" && c.PostgresUser == "" {
		return fmt.Errorf("DATABASE_URL or POSTGRES_USER is required")
	}
	return nil
}
