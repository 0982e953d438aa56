package cmd

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app       = "cvmatch"
	envPrefix = "CVMATCH"
)

type Config struct {
	APIURL       string        `mapstructure:"api-url"`
	Timeout      time.Duration `mapstructure:"timeout"`
	UserAgent    string        `mapstructure:"user-agent"`
	SessionFile  string        `mapstructure:"session-file"`
	PollInterval time.Duration `mapstructure:"poll-interval"`
	MaxPolls     int           `mapstructure:"max-polls"`
	Upload       *UploadConfig `mapstructure:"upload"`
	Debug        bool          `mapstructure:"debug"`
	JSON         bool          `mapstructure:"json"`
}

type UploadConfig struct {
	MaxSize           int64    `mapstructure:"max-size"`
	AllowedExtensions []string `mapstructure:"allowed-extensions"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "cvmatch is a cli for uploading CVs and matching them against job postings",
	}
)

// Execute executes the root command. SIGINT and SIGTERM cancel the command
// context, which aborts any upload in progress.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return rootCmd.ExecuteContext(ctx)
}

func init() {
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("api-url", "http://localhost:5000")
	viper.SetDefault("timeout", 30*time.Second)
	viper.SetDefault("user-agent", "")
	viper.SetDefault("session-file", "")
	viper.SetDefault("poll-interval", 2*time.Second)
	viper.SetDefault("max-polls", 0)
	viper.SetDefault("upload.max-size", 10<<20)
	viper.SetDefault("upload.allowed-extensions", []string{"pdf", "docx", "txt"})

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is cvmatch.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")
	rootCmd.PersistentFlags().String("api-url", "", "backend base url")
	rootCmd.PersistentFlags().String("session-file", "", "where the access token is kept (default is in the user config directory)")

	for _, name := range []string{"debug", "json", "api-url", "session-file"} {
		if err := viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name)); err != nil {
			log.Fatalf("binding %s flag: %v", name, err)
		}
	}
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	err := viper.ReadInConfig()

	// The config file is optional unless it was given explicitly.
	var notFound viper.ConfigFileNotFoundError
	if err != nil && (cfgFile != "" || !errors.As(err, &notFound)) {
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	if config.Upload == nil {
		config.Upload = &UploadConfig{}
	}

	return config, nil
}
