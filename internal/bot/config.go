package bot

// Config represents the configuration for the bot
type Config struct {
	// Maximum cards shown in one practice session
	PracticeBatchSize int
	// Long-poll timeout in seconds for the Telegram update feed
	UpdateTimeout int
}

// DefaultConfig returns the default bot configuration
func DefaultConfig() *Config {
	return &Config{
		PracticeBatchSize: 50,
		UpdateTimeout:     30,
	}
}
