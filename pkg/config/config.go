package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config regroupe la configuration de l'application (lecture via Viper depuis
// les variables d'environnement et, en option, un fichier .env).
type Config struct {
	App     AppConfig
	DB      DBConfig
	Redis   RedisConfig
	Session SessionConfig
	HTTP    HTTPConfig
	Auth    AuthConfig
	Stripe  StripeConfig
	Mail    MailConfig
	AI      AIConfig
}

// AppConfig configuration générale de l'application.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	BaseURL  string // URL publique du front (redirections Stripe, liens emails)
	LogLevel string // trace, debug, info, warn, error
}

// DBConfig configuration PostgreSQL. Si DatabaseURL n'est pas vide, il est
// utilisé tel quel comme connection string complet.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
}

// ConnectionString retourne le DSN à utiliser : DatabaseURL s'il est défini,
// sinon celui construit par DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN construit le connection string PostgreSQL avec encodage URL pour les
// caractères spéciaux du mot de passe.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// RedisConfig configuration du store de sessions.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// SessionConfig paramètres des sessions côté serveur.
type SessionConfig struct {
	CookieName  string
	IdleTimeout time.Duration // éviction après inactivité
}

// HTTPConfig configuration du serveur HTTP.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr retourne l'adresse d'écoute (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// AuthConfig secrets d'authentification hors session : jetons signés de
// réinitialisation de mot de passe et durée de validité des jetons de
// vérification d'email.
type AuthConfig struct {
	ResetSecret        string
	ResetExpiration    int // minutes
	VerifyTokenExpiry  int // heures
}

// StripeConfig clés du prestataire de paiement.
type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
}

// MailConfig transport SMTP des emails transactionnels.
type MailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// AIConfig accès au service Gemini pour la suggestion de tarification.
type AIConfig struct {
	GeminiAPIKey string
	GeminiModel  string
}

// Load lit la configuration depuis les variables d'environnement (et en
// option un fichier .env). Les variables d'environnement ont priorité.
func Load() (*Config, error) {
	v := viper.New()

	// Optionnel : fichier .env à la racine
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // on ignore l'erreur si le fichier n'existe pas

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "conformitia"),
			BaseURL:  getString(v, "APP_BASE_URL", "http://localhost:5173"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "conformitia"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Addr:     getString(v, "REDIS_ADDR", "localhost:6379"),
			Password: getString(v, "REDIS_PASSWORD", ""),
			DB:       getInt(v, "REDIS_DB", 0),
		},
		Session: SessionConfig{
			CookieName:  getString(v, "SESSION_COOKIE_NAME", "conformitia_sid"),
			IdleTimeout: time.Duration(getInt(v, "SESSION_IDLE_MINUTES", 30)) * time.Minute,
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		Auth: AuthConfig{
			ResetSecret:       getString(v, "AUTH_RESET_SECRET", ""),
			ResetExpiration:   getInt(v, "AUTH_RESET_EXPIRATION_MINUTES", 30),
			VerifyTokenExpiry: getInt(v, "AUTH_VERIFY_TOKEN_HOURS", 48),
		},
		Stripe: StripeConfig{
			SecretKey:     getString(v, "STRIPE_SECRET_KEY", ""),
			WebhookSecret: getString(v, "STRIPE_WEBHOOK_SECRET", ""),
		},
		Mail: MailConfig{
			Host:     getString(v, "MAIL_HOST", "localhost"),
			Port:     getInt(v, "MAIL_PORT", 587),
			Username: getString(v, "MAIL_USERNAME", ""),
			Password: getString(v, "MAIL_PASSWORD", ""),
			From:     getString(v, "MAIL_FROM", "no-reply@conformitia.fr"),
		},
		AI: AIConfig{
			GeminiAPIKey: getString(v, "GEMINI_API_KEY", ""),
			GeminiModel:  getString(v, "GEMINI_MODEL", "gemini-1.5-flash"),
		},
	}

	return cfg, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case string:
			n, _ := strconv.Atoi(v.GetString(key))
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}
