package mdomml

import (
	"errors"
	"fmt"
	"os"
	"regexp"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"
)

// ErrConfigValidation is returned when configuration validation fails
var ErrConfigValidation = errors.New("configuration validation failed")

// Config represents the mdomml configuration
type Config struct {
	Fonts  FontConfig   `yaml:"fonts"`
	Page   PageConfig   `yaml:"page"`
	Math   MathConfig   `yaml:"math"`
	Output OutputConfig `yaml:"output"`
}

// FontConfig represents font faces and sizes (points) used in the generated document
type FontConfig struct {
	Body        string  `yaml:"body"`
	Heading     string  `yaml:"heading"`
	Math        string  `yaml:"math"` // Used for formulas that fall back to plain text
	Code        string  `yaml:"code"`
	BodySize    float64 `yaml:"body_size"`
	TableSize   float64 `yaml:"table_size"`
	TitleSize   float64 `yaml:"title_size"`
	Heading1    float64 `yaml:"heading1_size"`
	Heading2    float64 `yaml:"heading2_size"`
	FirstIndent float64 `yaml:"first_line_indent_cm"`
}

// PageConfig represents page margins in centimeters
type PageConfig struct {
	MarginTop    float64 `yaml:"margin_top"`
	MarginBottom float64 `yaml:"margin_bottom"`
	MarginLeft   float64 `yaml:"margin_left"`
	MarginRight  float64 `yaml:"margin_right"`
}

// MathConfig represents formula handling settings
type MathConfig struct {
	// DetectImplicit enables detection of unmarked math in prose.
	// Pointer to distinguish between unset and false.
	DetectImplicit *bool `yaml:"detect_implicit"`

	// OperatorNames are extra macro names rendered as upright operator names.
	OperatorNames []string `yaml:"operator_names"`
}

// OutputConfig represents where converted documents are written
type OutputConfig struct {
	Dir    string `yaml:"dir"`
	Suffix string `yaml:"suffix"`
}

// IsDetectionEnabled returns true unless implicit math detection is explicitly disabled
func (m *MathConfig) IsDetectionEnabled() bool {
	return m.DetectImplicit == nil || *m.DetectImplicit
}

var operatorNamePattern = regexp.MustCompile(`^[A-Za-z]+$`)

// LoadConfig loads configuration from the specified file
func LoadConfig(configPath string) (*Config, error) {
	// Load .env files first
	err := loadEnvFiles()
	if err != nil {
		return nil, fmt.Errorf("failed to load environment files: %w", err)
	}

	// Check if config file exists
	_, err = os.Stat(configPath)
	if os.IsNotExist(err) {
		// Return default configuration if file doesn't exist
		config := DefaultConfig()
		expandConfigEnvVars(config)

		return config, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return ParseConfig(data)
}

// ParseConfig parses YAML configuration data, validates it and applies defaults
func ParseConfig(data []byte) (*Config, error) {
	// Parse YAML with strict mode to detect unknown fields
	var config Config

	err := yaml.UnmarshalWithOptions(data, &config, yaml.Strict())
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	applyDefaults(&config)
	expandConfigEnvVars(&config)

	return &config, nil
}

// validateConfig validates the configuration for common errors and inconsistencies
func validateConfig(config *Config) error {
	sizes := map[string]float64{
		"fonts.body_size":     config.Fonts.BodySize,
		"fonts.table_size":    config.Fonts.TableSize,
		"fonts.title_size":    config.Fonts.TitleSize,
		"fonts.heading1_size": config.Fonts.Heading1,
		"fonts.heading2_size": config.Fonts.Heading2,
	}
	for name, size := range sizes {
		if size < 0 {
			return fmt.Errorf("%w: %s must be non-negative, got %g", ErrConfigValidation, name, size)
		}
	}

	margins := map[string]float64{
		"page.margin_top":    config.Page.MarginTop,
		"page.margin_bottom": config.Page.MarginBottom,
		"page.margin_left":   config.Page.MarginLeft,
		"page.margin_right":  config.Page.MarginRight,
	}
	for name, margin := range margins {
		if margin < 0 {
			return fmt.Errorf("%w: %s must be non-negative, got %g", ErrConfigValidation, name, margin)
		}
	}

	for _, name := range config.Math.OperatorNames {
		if !operatorNamePattern.MatchString(name) {
			return fmt.Errorf("%w: math.operator_names entry '%s' must consist of ASCII letters only", ErrConfigValidation, name)
		}
	}

	return nil
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Fonts: FontConfig{
			Body:        "宋体",
			Heading:     "黑体",
			Math:        "Cambria Math",
			Code:        "Consolas",
			BodySize:    12,
			TableSize:   10,
			TitleSize:   22,
			Heading1:    16,
			Heading2:    14,
			FirstIndent: 0.85,
		},
		Page: PageConfig{
			MarginTop:    2.54,
			MarginBottom: 2.54,
			MarginLeft:   3.17,
			MarginRight:  3.17,
		},
		Math: MathConfig{
			OperatorNames: []string{},
		},
		Output: OutputConfig{
			Suffix: ".docx",
		},
	}
}

// applyDefaults applies default values to missing configuration fields
func applyDefaults(config *Config) {
	defaults := DefaultConfig()

	if config.Fonts.Body == "" {
		config.Fonts.Body = defaults.Fonts.Body
	}

	if config.Fonts.Heading == "" {
		config.Fonts.Heading = defaults.Fonts.Heading
	}

	if config.Fonts.Math == "" {
		config.Fonts.Math = defaults.Fonts.Math
	}

	if config.Fonts.Code == "" {
		config.Fonts.Code = defaults.Fonts.Code
	}

	if config.Fonts.BodySize == 0 {
		config.Fonts.BodySize = defaults.Fonts.BodySize
	}

	if config.Fonts.TableSize == 0 {
		config.Fonts.TableSize = defaults.Fonts.TableSize
	}

	if config.Fonts.TitleSize == 0 {
		config.Fonts.TitleSize = defaults.Fonts.TitleSize
	}

	if config.Fonts.Heading1 == 0 {
		config.Fonts.Heading1 = defaults.Fonts.Heading1
	}

	if config.Fonts.Heading2 == 0 {
		config.Fonts.Heading2 = defaults.Fonts.Heading2
	}

	if config.Fonts.FirstIndent == 0 {
		config.Fonts.FirstIndent = defaults.Fonts.FirstIndent
	}

	// Zero margins are legal, so only an entirely empty page section gets defaults
	if config.Page == (PageConfig{}) {
		config.Page = defaults.Page
	}

	if config.Math.OperatorNames == nil {
		config.Math.OperatorNames = []string{}
	}

	if config.Output.Suffix == "" {
		config.Output.Suffix = defaults.Output.Suffix
	}
}

// loadEnvFiles loads .env files if they exist
func loadEnvFiles() error {
	// Try to load .env file from current directory
	if fileExists(".env") {
		err := godotenv.Load(".env")
		if err != nil {
			return fmt.Errorf("failed to load .env file: %w", err)
		}
	}

	return nil
}

var (
	bracedEnvVar = regexp.MustCompile(`\$\{([^}]+)\}`)
	plainEnvVar  = regexp.MustCompile(`\$([A-Za-z_][A-Za-z0-9_]*)`)
)

// expandEnvVars expands environment variables in the format ${VAR} or $VAR
func expandEnvVars(s string) string {
	s = bracedEnvVar.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[2 : len(match)-1] // Remove ${ and }
		return os.Getenv(varName)
	})

	s = plainEnvVar.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[1:] // Remove $
		return os.Getenv(varName)
	})

	return s
}

// expandConfigEnvVars expands environment variables in string settings
func expandConfigEnvVars(config *Config) {
	config.Fonts.Body = expandEnvVars(config.Fonts.Body)
	config.Fonts.Heading = expandEnvVars(config.Fonts.Heading)
	config.Fonts.Math = expandEnvVars(config.Fonts.Math)
	config.Fonts.Code = expandEnvVars(config.Fonts.Code)
	config.Output.Dir = expandEnvVars(config.Output.Dir)
}

// fileExists checks if a file exists
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
