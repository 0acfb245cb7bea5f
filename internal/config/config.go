package config

import (
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config はアプリケーション設定を表す
// main で一度だけ構築し、各コンポーネントへ明示的に渡す
type Config struct {
	Server      ServerConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	Auth        AuthConfig
	Reservation ReservationConfig
	Jobs        JobsConfig
	Metrics     MetricsConfig
}

// ServerConfig はサーバー設定
type ServerConfig struct {
	Env          string
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	// BodyLimit はリクエストボディの上限（echo の表記、例: "1M"）
	BodyLimit        string
	CORSAllowOrigins []string
}

// DatabaseConfig はデータベース設定
type DatabaseConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MigrationsPath  string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// RedisConfig はRedis設定
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// AuthConfig はJWT認証の設定
type AuthConfig struct {
	JWTSecret  string
	CookieName string
	AdminRole  string
}

// MetricsConfig は /metrics の Basic 認証設定
// User と Password の両方が設定されている場合のみ認証を要求する
type MetricsConfig struct {
	User     string
	Password string
}

// IsAuthEnabled は認証が有効かどうかを返す
func (c *MetricsConfig) IsAuthEnabled() bool {
	return c.User != "" && c.Password != ""
}

// ReservationConfig は予約ライフサイクルの設定
type ReservationConfig struct {
	// HoldExpiry は仮押さえ作成から期限切れチェックまでの時間
	HoldExpiry time.Duration
	// TaskIndexTTL はタスクインデックスの保持期間
	TaskIndexTTL time.Duration
	// PaymentSentinel は決済確認として受け付けるダミーの決済ID
	PaymentSentinel string
}

// JobsConfig はバックグラウンドジョブの設定
type JobsConfig struct {
	CompletionInterval time.Duration
	CompletionOffset   time.Duration
	TaskPollInterval   time.Duration
	TaskConcurrency    int
	TaskLease          time.Duration
	TaskBatchSize      int
}

// Load は環境変数から設定を読み込む
// カレントディレクトリに .env があれば先に読み込む（既存の環境変数は上書きしない）
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Env:              getEnv("APP_ENV", "development"),
			Port:             getEnv("PORT", "8080"),
			ReadTimeout:      getDurationEnv("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:     getDurationEnv("SERVER_WRITE_TIMEOUT", 30*time.Second),
			BodyLimit:        getEnv("SERVER_BODY_LIMIT", "1M"),
			CORSAllowOrigins: getListEnv("CORS_ALLOW_ORIGINS", []string{"*"}),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", "postgres"),
			DBName:          getEnv("DB_NAME", "movie_reservation"),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			MigrationsPath:  getEnv("MIGRATIONS_PATH", "migrations"),
			MaxOpenConns:    getIntEnv("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getIntEnv("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getDurationEnv("DB_CONN_MAX_LIFETIME", 30*time.Minute),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getIntEnv("REDIS_DB", 0),
		},
		Auth: AuthConfig{
			JWTSecret:  getEnv("JWT_SECRET", "change-me"),
			CookieName: getEnv("AUTH_COOKIE_NAME", "ath"),
			AdminRole:  getEnv("AUTH_ADMIN_ROLE", "ADMIN"),
		},
		Reservation: ReservationConfig{
			HoldExpiry:      getDurationEnv("RESERVATION_HOLD_EXPIRY", 60*time.Second),
			TaskIndexTTL:    getDurationEnv("RESERVATION_TASK_INDEX_TTL", 30*time.Minute),
			PaymentSentinel: getEnv("RESERVATION_PAYMENT_SENTINEL", "DUMMY_PAYMENT_ID_123"),
		},
		Jobs: JobsConfig{
			CompletionInterval: getDurationEnv("JOBS_COMPLETION_INTERVAL", 5*time.Minute),
			CompletionOffset:   getDurationEnv("JOBS_COMPLETION_OFFSET", 5*time.Minute),
			TaskPollInterval:   getDurationEnv("JOBS_TASK_POLL_INTERVAL", time.Second),
			TaskConcurrency:    getIntEnv("JOBS_TASK_CONCURRENCY", 8),
			TaskLease:          getDurationEnv("JOBS_TASK_LEASE", 30*time.Second),
			TaskBatchSize:      getIntEnv("JOBS_TASK_BATCH_SIZE", 32),
		},
		Metrics: MetricsConfig{
			User:     getEnv("METRICS_USER", ""),
			Password: getEnv("METRICS_PASSWORD", ""),
		},
	}

	// DATABASE_URL / REDIS_URL が指定されていれば個別設定より優先する
	if raw := os.Getenv("DATABASE_URL"); raw != "" {
		applyDatabaseURL(&cfg.Database, raw)
	}
	if raw := os.Getenv("REDIS_URL"); raw != "" {
		applyRedisURL(&cfg.Redis, raw)
	}

	return cfg
}

// IsProduction は本番環境かを返す
func (c *ServerConfig) IsProduction() bool {
	return c.Env == "production"
}

// DSN はPostgreSQL接続文字列を返す
func (c *DatabaseConfig) DSN() string {
	return "host=" + c.Host +
		" port=" + c.Port +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.DBName +
		" sslmode=" + c.SSLMode
}

// Addr はRedis接続アドレスを返す
func (c *RedisConfig) Addr() string {
	return c.Host + ":" + c.Port
}

func applyDatabaseURL(c *DatabaseConfig, raw string) {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return
	}
	c.Host = u.Hostname()
	if p := u.Port(); p != "" {
		c.Port = p
	}
	if u.User != nil {
		c.User = u.User.Username()
		if pw, ok := u.User.Password(); ok {
			c.Password = pw
		}
	}
	if name := strings.TrimPrefix(u.Path, "/"); name != "" {
		c.DBName = name
	}
	c.SSLMode = "require"
	if mode := u.Query().Get("sslmode"); mode != "" {
		c.SSLMode = mode
	}
}

func applyRedisURL(c *RedisConfig, raw string) {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return
	}
	c.Host = u.Hostname()
	if p := u.Port(); p != "" {
		c.Port = p
	}
	if u.User != nil {
		if pw, ok := u.User.Password(); ok {
			c.Password = pw
		}
	}
	if db := strings.TrimPrefix(u.Path, "/"); db != "" {
		if n, err := strconv.Atoi(db); err == nil {
			c.DB = n
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

// getListEnv はカンマ区切りの値を返す。空要素は捨てる
func getListEnv(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, v := range strings.Split(value, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
