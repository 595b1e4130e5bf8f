package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/couchcryptid/geo-digest-service/internal/domain"
)

// CLI holds defaults for the digest command. Values in a request file take
// precedence over these.
type CLI struct {
	Options domain.Options `mapstructure:"options"`
	Workers int            `mapstructure:"workers"`
	// RequireField drops features without a value for this property.
	RequireField string `mapstructure:"require_field"`
	LogLevel     string `mapstructure:"log_level"`
	LogFormat    string `mapstructure:"log_format"`
}

// LoadCLI loads CLI defaults from cfgFile (or ~/.geodigest/config.yaml when
// present), GEODIGEST_* environment variables, and built-in defaults.
func LoadCLI(cfgFile string) (*CLI, error) {
	v := viper.New()
	v.SetEnvPrefix("GEODIGEST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	d := domain.DefaultOptions()
	v.SetDefault("options.analysis_type", string(d.AnalysisType))
	v.SetDefault("options.include_statistics", d.IncludeStatistics)
	v.SetDefault("options.include_outliers", d.IncludeOutliers)
	v.SetDefault("options.include_clustering", d.IncludeClustering)
	v.SetDefault("options.top_performers", d.TopPerformers)
	v.SetDefault("options.bottom_performers", d.BottomPerformers)
	v.SetDefault("options.max_bytes", d.MaxBytes)
	v.SetDefault("workers", 1)
	v.SetDefault("require_field", "")
	v.SetDefault("log_level", "warn")
	v.SetDefault("log_format", "text")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".geodigest"))
		}
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		// optional
		_ = v.ReadInConfig()
	}

	var c CLI
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}
