// internal/config/config.go
package config

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Database  DatabaseConfig  `mapstructure:"database"`
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	App       AppConfig       `mapstructure:"app"`
	Auth      AuthConfig      `mapstructure:"auth"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	CORS      CORSConfig      `mapstructure:"cors"`
	Mailer    MailerConfig    `mapstructure:"mailer"`
	SMTP      SMTPConfig      `mapstructure:"smtp"`
	SES       SESConfig       `mapstructure:"ses"`
	Gemini    GeminiConfig    `mapstructure:"gemini"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Google    GoogleConfig    `mapstructure:"google"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

type DatabaseConfig struct {
	URL string `mapstructure:"url"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	FrontendURL string `mapstructure:"frontend_url"`
	// レベルアップに必要な「現在レベルで完了したストーリー数」
	StoriesRequiredForLevelUp int    `mapstructure:"stories_required_for_level_up"`
	FeedLimit                 int    `mapstructure:"feed_limit"`
	Timezone                  string `mapstructure:"timezone"`
}

// Location はストリーク計算に使う日付境界のタイムゾーンを返します
func (c AppConfig) Location() *time.Location {
	if c.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		log.Printf("Invalid app.timezone %q, falling back to UTC: %v", c.Timezone, err)
		return time.UTC
	}
	return loc
}

type AuthConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

type JWTConfig struct {
	SecretKey      string        `mapstructure:"secret_key"`
	AccessTokenTTL time.Duration `mapstructure:"access_token_ttl"`
}

type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	ExposedHeaders   []string `mapstructure:"exposed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

type MailerConfig struct {
	Type string `mapstructure:"type"` // log | smtp | ses
}

type SMTPConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	From string `mapstructure:"from"`
}

type SESConfig struct {
	Region          string `mapstructure:"region"`
	From            string `mapstructure:"from"`
	AuthType        string `mapstructure:"auth_type"` // static_credentials | iam_role
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
}

type GeminiConfig struct {
	APIKey     string `mapstructure:"api_key"`
	StoryModel string `mapstructure:"story_model"`
	TTSModel   string `mapstructure:"tts_model"`
	Voice      string `mapstructure:"voice"`
	// 連続失敗がこの回数に達したらブレーカーを開く
	BreakerFailures uint32        `mapstructure:"breaker_failures"`
	BreakerTimeout  time.Duration `mapstructure:"breaker_timeout"`
}

type StorageConfig struct {
	Provider string    `mapstructure:"provider"` // s3 | gcs
	S3       S3Config  `mapstructure:"s3"`
	GCS      GCSConfig `mapstructure:"gcs"`
}

type S3Config struct {
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	Bucket          string `mapstructure:"bucket"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	// 空の場合は https://{bucket}.{endpoint host} を使う
	PublicBaseURL string `mapstructure:"public_base_url"`
}

type GCSConfig struct {
	Bucket          string `mapstructure:"bucket"`
	CDNDomain       string `mapstructure:"cdn_domain"`
	CredentialsFile string `mapstructure:"credentials_file"`
}

type GoogleConfig struct {
	ClientIDs []string `mapstructure:"client_ids"`
}

type RateLimitConfig struct {
	NextTrailPerMinute int `mapstructure:"next_trail_per_minute"`
}

// LoadConfig は path 配下の config.yaml と環境変数 (APP_ 接頭辞) から設定を読み込みます
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(path)
	v.AddConfigPath(".")

	// APP_GEMINI_API_KEY -> gemini.api_key
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.BindEnv("auth.enabled", "AUTH_ENABLED")
	v.BindEnv("gemini.api_key", "GEMINI_API_KEY")
	v.BindEnv("storage.s3.access_key_id", "OBS_ACCESS_KEY")
	v.BindEnv("storage.s3.secret_access_key", "OBS_SECRET_KEY")
	v.BindEnv("storage.s3.endpoint", "OBS_ENDPOINT")
	v.BindEnv("storage.s3.bucket", "OBS_BUCKET_NAME")
	v.BindEnv("storage.s3.region", "OBS_REGION")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			log.Println("Warning: Config file not found. Using default settings or environment variables if available.")
		} else {
			log.Printf("Error reading config file: %s\n", err)
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		log.Printf("Error unmarshalling config: %s\n", err)
		return nil, err
	}

	// --- 値の補正 ---
	if cfg.App.StoriesRequiredForLevelUp <= 0 {
		log.Println("app.stories_required_for_level_up not set or invalid, using default")
		cfg.App.StoriesRequiredForLevelUp = DefaultStoriesRequiredForLevelUp
	}
	if cfg.App.FeedLimit <= 0 {
		cfg.App.FeedLimit = DefaultFeedLimit
	}
	if cfg.Database.URL == "" {
		log.Println("Warning: Database URL is not set in config.")
	}
	if cfg.JWT.SecretKey == "" && cfg.Auth.Enabled {
		log.Println("Warning: jwt.secret_key is empty while auth is enabled.")
	}

	log.Println("Config loaded successfully")
	log.Printf("Server Port: %s", cfg.Server.Port)
	log.Printf("Auth Enabled: %t", cfg.Auth.Enabled)
	log.Printf("Storage Provider: %s", cfg.Storage.Provider)

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", DefaultServerPort)
	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("app.name", AppName)
	v.SetDefault("app.stories_required_for_level_up", DefaultStoriesRequiredForLevelUp)
	v.SetDefault("app.feed_limit", DefaultFeedLimit)
	v.SetDefault("app.timezone", "UTC")
	v.SetDefault("auth.enabled", DefaultAuthEnabled)
	v.SetDefault("jwt.access_token_ttl", DefaultAccessTokenTTL)
	v.SetDefault("mailer.type", "log")
	v.SetDefault("gemini.story_model", DefaultStoryModel)
	v.SetDefault("gemini.tts_model", DefaultTTSModel)
	v.SetDefault("gemini.voice", DefaultVoice)
	v.SetDefault("gemini.breaker_failures", 5)
	v.SetDefault("gemini.breaker_timeout", 30*time.Second)
	v.SetDefault("storage.provider", "s3")
	v.SetDefault("storage.s3.bucket", DefaultOBSBucket)
	v.SetDefault("storage.s3.region", DefaultOBSRegion)
	v.SetDefault("rate_limit.next_trail_per_minute", DefaultNextTrailPerMinute)
}
