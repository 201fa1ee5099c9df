package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// DefaultSheetName is the worksheet title used for spreadsheet exports
const DefaultSheetName = "Folder File Details"

// Config represents the exporter configuration
type Config struct {
	// Scan settings
	Path string `mapstructure:"path"` // folder to scan

	// Report settings
	Format     string `mapstructure:"format" validate:"omitempty,oneof=xlsx csv json yaml md"` // empty: derive from output extension
	OutputFile string `mapstructure:"output_file"`                                               // output file path
	SheetName  string `mapstructure:"sheet_name" validate:"required,max=31,excludesall=[]:*?/\\"` // worksheet title

	// Metrics settings
	MetricsFile string `mapstructure:"metrics_file"` // node exporter textfile output, disabled if empty

	// Upload settings
	Upload UploadConfig `mapstructure:"upload"`

	Verbose bool `mapstructure:"verbose"`
}

// UploadConfig holds S3 upload configuration
type UploadConfig struct {
	URI          string `mapstructure:"uri" validate:"omitempty,startswith=s3://"` // s3://bucket/key
	Region       string `mapstructure:"region"`
	Endpoint     string `mapstructure:"endpoint" validate:"omitempty,url"` // S3-compatible endpoint
	UsePathStyle bool   `mapstructure:"use_path_style"`
	Timeout      int    `mapstructure:"timeout" validate:"gte=0"` // seconds
}

var (
	validatorInstance *validator.Validate
	validatorOnce     sync.Once
)

func getValidator() *validator.Validate {
	validatorOnce.Do(func() {
		validatorInstance = validator.New(validator.WithRequiredStructEnabled())
	})
	return validatorInstance
}

// LoadConfig loads configuration from an optional config file, .env,
// environment variables and defaults, then overlays any changed flags.
func LoadConfig(flags *pflag.FlagSet) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()

	// Set defaults
	v.SetDefault("path", "")
	v.SetDefault("format", "")
	v.SetDefault("output_file", "")
	v.SetDefault("sheet_name", DefaultSheetName)
	v.SetDefault("metrics_file", "")
	v.SetDefault("verbose", false)
	v.SetDefault("upload.uri", "")
	v.SetDefault("upload.region", "us-east-1")
	v.SetDefault("upload.endpoint", "")
	v.SetDefault("upload.use_path_style", false)
	v.SetDefault("upload.timeout", 60)

	v.SetConfigName("dirsheet")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "dirsheet"))
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Read environment variables
	v.SetEnvPrefix("DIRSHEET")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if flags != nil {
		if err := bindFlags(v, flags); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// flagKeys maps CLI flag names to config keys
var flagKeys = map[string]string{
	"format":         "format",
	"output":         "output_file",
	"sheet":          "sheet_name",
	"metrics-file":   "metrics_file",
	"upload":         "upload.uri",
	"s3-region":      "upload.region",
	"s3-endpoint":    "upload.endpoint",
	"s3-path-style":  "upload.use_path_style",
	"upload-timeout": "upload.timeout",
	"verbose":        "verbose",
}

// bindFlags binds only the flags the user actually set, so unset flags do
// not mask values from the config file or environment.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	var bindErr error
	flags.Visit(func(f *pflag.Flag) {
		key, ok := flagKeys[f.Name]
		if !ok || bindErr != nil {
			return
		}
		if err := v.BindPFlag(key, f); err != nil {
			bindErr = fmt.Errorf("failed to bind flag --%s: %w", f.Name, err)
		}
	})
	return bindErr
}

// Validate checks field constraints
func (c *Config) Validate() error {
	if err := getValidator().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// ResolveFormat returns the export format, falling back to the output file
// extension and finally to xlsx
func (c *Config) ResolveFormat() string {
	if c.Format != "" {
		return c.Format
	}
	return FormatFromPath(c.OutputFile)
}

// FormatFromPath derives an export format from a file extension
func FormatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return "csv"
	case ".json":
		return "json"
	case ".yaml", ".yml":
		return "yaml"
	case ".md", ".markdown":
		return "md"
	default:
		return "xlsx"
	}
}
