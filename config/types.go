package config

// Config represents the complete configuration structure
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Mock    MockConfig    `mapstructure:"mock"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// APIConfig holds speedrun.com API connection details
type APIConfig struct {
	BaseURL   string `mapstructure:"base_url"`
	APIKey    string `mapstructure:"api_key"`
	UserAgent string `mapstructure:"user_agent"`
	TimeoutS  int    `mapstructure:"timeout_seconds"`
}

// MockConfig controls recorded-response playback
type MockConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Dir     string `mapstructure:"dir"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}
