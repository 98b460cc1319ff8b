package config

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/joho/godotenv"
)

// DefaultGroup --group 未指定時のグループ
const DefaultGroup = "Sydney-Linux-User-Group"

// SSMParameterGetter Parameter Storeからパラメータを取得するインターフェース
type SSMParameterGetter interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

// Config アプリケーション設定構造体
type Config struct {
	// Meetup API設定
	APIKey       string
	BaseURL      string
	DefaultGroup string

	// Google Calendar設定（exportでのみ使用）
	GoogleCredentials string
	CalendarID        string

	// その他設定
	LogLevel string
	Timezone string

	// AWS関連（本番環境でのみ使用）
	ssmClient SSMParameterGetter
}

// fileConfig config.json の構造体
type fileConfig struct {
	APIKey string `json:"apiKey"`
}

// Load 環境に応じて設定を読み込み
func Load(ctx context.Context, path string) (*Config, error) {
	// AWS Lambda環境かどうか判定
	if os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != "" {
		return loadAWSConfig(ctx)
	}
	return loadLocalConfig(path)
}

// loadLocalConfig ローカル環境用の設定読み込み
func loadLocalConfig(path string) (*Config, error) {
	// .envファイルを読み込み（存在する場合のみ）
	if err := godotenv.Load(); err != nil {
		slog.Debug(".envファイルが見つかりません", "error", err)
	}

	// MEETUP_API_KEY があれば config.json は読まない
	apiKey := getEnvOrDefault("MEETUP_API_KEY", "")
	if apiKey == "" {
		var err error
		apiKey, err = readAPIKey(path)
		if err != nil {
			return nil, err
		}
	}

	cfg := newBaseConfig()
	cfg.APIKey = apiKey
	cfg.GoogleCredentials = getEnvOrDefault("GOOGLE_CREDENTIALS", "")

	return cfg, nil
}

// readAPIKey config.json からAPIキーを読み込み
func readAPIKey(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("設定ファイル %s の読み込みに失敗しました: %w", path, err)
	}

	var fc fileConfig
	if err := json.Unmarshal(data, &fc); err != nil {
		return "", fmt.Errorf("設定ファイル %s のJSON解析に失敗しました: %w", path, err)
	}
	if strings.TrimSpace(fc.APIKey) == "" {
		return "", fmt.Errorf("設定ファイル %s にapiKeyが設定されていません", path)
	}
	return strings.TrimSpace(fc.APIKey), nil
}

// loadAWSConfig AWS Lambda環境用の設定読み込み
func loadAWSConfig(ctx context.Context) (*Config, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("AWS設定の読み込みに失敗しました: %w", err)
	}

	cfg := newBaseConfig()
	cfg.ssmClient = ssm.NewFromConfig(awsCfg)

	// Parameter Storeから機密情報を取得
	if err := cfg.loadFromParameterStore(ctx); err != nil {
		return nil, fmt.Errorf("Parameter Storeからの設定読み込みに失敗しました: %w", err)
	}

	return cfg, nil
}

func newBaseConfig() *Config {
	return &Config{
		// 空ならクライアント側の既定URLを使う
		BaseURL:      getEnvOrDefault("MEETUP_BASE_URL", ""),
		DefaultGroup: getEnvOrDefault("MEETUP_DEFAULT_GROUP", DefaultGroup),
		CalendarID:   getEnvOrDefault("CALENDAR_ID", "primary"),
		LogLevel:     getEnvOrDefault("LOG_LEVEL", "INFO"),
		Timezone:     getEnvOrDefault("TIMEZONE", ""),
	}
}

// loadFromParameterStore Parameter Storeから機密情報を読み込み
func (c *Config) loadFromParameterStore(ctx context.Context) error {
	apiKeyParam := getEnvOrDefault("MEETUP_API_KEY_PARAM", "/meetup-cli/api-key")
	apiKey, err := c.getParameter(ctx, apiKeyParam, true)
	if err != nil {
		return fmt.Errorf("Meetup APIキーの取得に失敗しました: %w", err)
	}
	c.APIKey = apiKey

	// Google認証情報はexportを使う場合のみ設定される
	if googleCredsParam := getEnvOrDefault("GOOGLE_CREDS_PARAM", ""); googleCredsParam != "" {
		googleCreds, err := c.getParameter(ctx, googleCredsParam, true)
		if err != nil {
			return fmt.Errorf("Google認証情報の取得に失敗しました: %w", err)
		}
		c.GoogleCredentials = googleCreds
	}

	return nil
}

// getParameter Parameter Storeから指定されたパラメータを取得
func (c *Config) getParameter(ctx context.Context, paramName string, withDecryption bool) (string, error) {
	input := &ssm.GetParameterInput{
		Name:           aws.String(paramName),
		WithDecryption: aws.Bool(withDecryption),
	}

	result, err := c.ssmClient.GetParameter(ctx, input)
	if err != nil {
		return "", fmt.Errorf("パラメータ %s の取得に失敗しました: %w", paramName, err)
	}

	if result.Parameter == nil || result.Parameter.Value == nil || *result.Parameter.Value == "" {
		return "", fmt.Errorf("パラメータ %s が空の値です", paramName)
	}

	return *result.Parameter.Value, nil
}

// Location 日時解釈に使うタイムゾーン。未設定ならローカル時刻
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("タイムゾーン %s の読み込みに失敗しました: %w", c.Timezone, err)
	}
	return loc, nil
}

// SlogLevel LOG_LEVELをslogのレベルに変換
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// getEnvOrDefault 環境変数を取得し、存在しない場合はデフォルト値を返す
func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}
