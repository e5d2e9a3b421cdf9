package config

import (
	"fmt"
	"log"

	"github.com/spf13/viper"
)

// AppConfig holds the application-level configuration
type AppConfig struct {
	Agent       string `mapstructure:"agent"`
	DownloadDir string `mapstructure:"download_dir"`
	JournalPath string `mapstructure:"journal_path"`
	ChunkSize   int    `mapstructure:"chunk_size"`
	Debug       bool   `mapstructure:"debug"`
}

var Config *AppConfig

func LoadConfig(path string) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(path)
	viper.AutomaticEnv()

	viper.SetDefault("agent", ":local.obexkit")
	viper.SetDefault("download_dir", "./downloads")
	viper.SetDefault("journal_path", "./data/journal")
	viper.SetDefault("chunk_size", 4096)
	viper.SetDefault("debug", false)

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("⚠️ Could not read config file, using defaults: %v", err)
	}

	var appConfig AppConfig
	if err := viper.Unmarshal(&appConfig); err != nil {
		log.Fatalf("❌ Unable to decode config into struct: %v", err)
	}

	Config = &appConfig

	fmt.Println("✅ Configuration loaded successfully.")
}
