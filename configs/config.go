package configs

import (
	"strings"

	"github.com/spf13/viper"
)

type Server struct {
	Port string `mapstructure:"port"`
}

type Database struct {
	Driver   string `mapstructure:"driver"`
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
}

type JWT struct {
	Secret    string `mapstructure:"secret"`
	ExpiresIn int    `mapstructure:"expires_in"` // 过期时间（小时）
}

type AI struct {
	APIKey      string `mapstructure:"api_key"`
	Model       string `mapstructure:"model"`
	VisionModel string `mapstructure:"vision_model"`
	APIURL      string `mapstructure:"api_url"`
}

type Imgur struct {
	ClientID string `mapstructure:"client_id"`
	APIURL   string `mapstructure:"api_url"`
}

// Webhooks 按事件类别配置的 n8n webhook 地址，留空表示该类别不转发
type Webhooks struct {
	CrushURL        string `mapstructure:"crush_url"`
	ConversationURL string `mapstructure:"conversation_url"`
	DashboardURL    string `mapstructure:"dashboard_url"`
	AnalyticsURL    string `mapstructure:"analytics_url"`
	PaymentURL      string `mapstructure:"payment_url"`
	Secret          string `mapstructure:"secret"`
}

type Config struct {
	Server   Server   `mapstructure:"server"`
	Database Database `mapstructure:"database"`
	JWT      JWT      `mapstructure:"jwt"`
	AI       AI       `mapstructure:"ai"`
	Imgur    Imgur    `mapstructure:"imgur"`
	Webhooks Webhooks `mapstructure:"webhooks"`
}

// Load 加载配置
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath(".")

	viper.SetDefault("server.port", "8080")
	viper.SetDefault("database.driver", "sqlite")
	viper.SetDefault("database.dbname", "crystal.db")
	viper.SetDefault("jwt.expires_in", 72)
	viper.SetDefault("ai.model", "gpt-4o-mini")
	viper.SetDefault("ai.vision_model", "gpt-4o")
	viper.SetDefault("imgur.api_url", "https://api.imgur.com/3/image")

	// 环境变量覆盖 yaml，例如 DATABASE_PASSWORD、AI_API_KEY
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}
