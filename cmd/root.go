package cmd

import (
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "founderhub"
)

type Config struct {
	Server    *ServerConfig    `mapstructure:"server"`
	Database  *DatabaseConfig  `mapstructure:"database"`
	Blob      *BlobConfig      `mapstructure:"blob"`
	AI        *AIConfig        `mapstructure:"ai"`
	Recommend *RecommendConfig `mapstructure:"recommend"`
	Directory *DirectoryConfig `mapstructure:"directory"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

type DatabaseConfig struct {
	Driver  string `mapstructure:"driver"`
	URL     string `mapstructure:"url"`
	URLFile string `mapstructure:"url-file"`
	Path    string `mapstructure:"path"`
}

type BlobConfig struct {
	AccountID     string `mapstructure:"account-id"`
	Endpoint      string `mapstructure:"endpoint"`
	Bucket        string `mapstructure:"bucket"`
	AccessKeyFile string `mapstructure:"access-key-file"`
	SecretKeyFile string `mapstructure:"secret-key-file"`
	PublicBaseURL string `mapstructure:"public-base-url"`
}

type AIConfig struct {
	Provider string        `mapstructure:"provider"`
	Gemini   *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxRetries   int    `mapstructure:"max-retries"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

type RecommendConfig struct {
	NearbyRadiusKm float64 `mapstructure:"nearby-radius-km"`
	MaxRecommended int     `mapstructure:"max-recommended"`
}

type DirectoryConfig struct {
	IndexPath string `mapstructure:"index-path"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "founderhub is a founder networking backend with an AI matchmaking assistant",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("gemini-api-key-file", "GEMINI_API_KEY_FILE"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY_FILE environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is founderhub.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	// Config is needed only for serve and chat. Skip for version etc.
	if serveCmd.CalledAs() == "" && chatCmd.CalledAs() == "" {
		return
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app + ".yaml")
	}

	// We can't proceed if the config file parsed with error.
	if err := viper.ReadInConfig(); err != nil {
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	if err := viper.Unmarshal(&config); err != nil {
		return config, err
	}

	return config, nil
}
