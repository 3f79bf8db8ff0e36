// Package config defines the configuration schema for menupilot.
//
// The config file lives at ~/.menupilot/config.yaml. YAML keys use camelCase
// to match the mobile app's settings export, which owners paste in as-is.
package config

// ProviderConfig holds the Gemini backend settings.
type ProviderConfig struct {
	APIKey      string `yaml:"apiKey"`
	APIBase     string `yaml:"apiBase"`
	Model       string `yaml:"model"`
	VisionModel string `yaml:"visionModel"`
}

func defaultProviderConfig() ProviderConfig {
	return ProviderConfig{
		Model:       "gemini-2.0-flash",
		VisionModel: "gemini-2.0-flash",
	}
}

// OwnerConfig identifies the signed-in restaurant owner.
type OwnerConfig struct {
	Name  string `yaml:"name"`
	Email string `yaml:"email"`
}

// RestaurantConfig pins the restaurant context. URL is the document key of
// the restaurant in the remote store; every command operates on it.
type RestaurantConfig struct {
	URL   string      `yaml:"url"`
	Owner OwnerConfig `yaml:"owner"`
}

// MongoConfig holds the remote document store connection settings.
type MongoConfig struct {
	URI        string `yaml:"uri"`
	Database   string `yaml:"database"`
	Collection string `yaml:"collection"`
}

func defaultMongoConfig() MongoConfig {
	return MongoConfig{
		URI:        "mongodb://localhost:27017",
		Database:   "menupilot",
		Collection: "restaurants",
	}
}

// CacheConfig holds local cache settings. An empty Dir resolves to
// <data dir>/cache at load time.
type CacheConfig struct {
	Dir string `yaml:"dir"`
}

// ChatConfig tunes the conversational loop.
type ChatConfig struct {
	Temperature   float64 `yaml:"temperature"`
	MaxTokens     int     `yaml:"maxTokens"`
	HistoryWindow int     `yaml:"historyWindow"`
}

func defaultChatConfig() ChatConfig {
	return ChatConfig{Temperature: 0.7, MaxTokens: 4096, HistoryWindow: 30}
}

// GatewayConfig holds the WebSocket gateway server settings.
type GatewayConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

func defaultGatewayConfig() GatewayConfig {
	return GatewayConfig{Host: "0.0.0.0", Port: 18790}
}

// TelegramConfig configures the Telegram channel.
type TelegramConfig struct {
	Enabled   bool     `yaml:"enabled"`
	Token     string   `yaml:"token"`
	AllowFrom []string `yaml:"allowFrom"`
}

// SlackDMConfig controls direct-message behaviour in Slack.
type SlackDMConfig struct {
	Enabled   bool     `yaml:"enabled"`
	Policy    string   `yaml:"policy"` // "open" or "allowlist"
	AllowFrom []string `yaml:"allowFrom"`
}

// SlackConfig configures the Slack channel (Socket Mode).
type SlackConfig struct {
	Enabled        bool          `yaml:"enabled"`
	BotToken       string        `yaml:"botToken"`
	AppToken       string        `yaml:"appToken"`
	ReplyInThread  bool          `yaml:"replyInThread"`
	ReactEmoji     string        `yaml:"reactEmoji"`
	GroupPolicy    string        `yaml:"groupPolicy"` // "open", "mention", "allowlist"
	GroupAllowFrom []string      `yaml:"groupAllowFrom"`
	DM             SlackDMConfig `yaml:"dm"`
}

func defaultSlackConfig() SlackConfig {
	return SlackConfig{
		ReplyInThread: true,
		ReactEmoji:    "eyes",
		GroupPolicy:   "mention",
		DM:            SlackDMConfig{Enabled: true, Policy: "open"},
	}
}

// ChannelsConfig groups all channel configurations.
type ChannelsConfig struct {
	Telegram TelegramConfig `yaml:"telegram"`
	Slack    SlackConfig    `yaml:"slack"`
}

// RefreshConfig schedules the background cache refresher. Schedule uses cron
// syntax, including the @every shorthand.
type RefreshConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Schedule string `yaml:"schedule"`
}

func defaultRefreshConfig() RefreshConfig {
	return RefreshConfig{Enabled: true, Schedule: "@every 15m"}
}

// Config is the root configuration object.
type Config struct {
	Provider   ProviderConfig   `yaml:"provider"`
	Restaurant RestaurantConfig `yaml:"restaurant"`
	Mongo      MongoConfig      `yaml:"mongo"`
	Cache      CacheConfig      `yaml:"cache"`
	Chat       ChatConfig       `yaml:"chat"`
	Gateway    GatewayConfig    `yaml:"gateway"`
	Channels   ChannelsConfig   `yaml:"channels"`
	Refresh    RefreshConfig    `yaml:"refresh"`
}

// DefaultConfig returns a Config populated with all default values.
func DefaultConfig() Config {
	return Config{
		Provider: defaultProviderConfig(),
		Mongo:    defaultMongoConfig(),
		Chat:     defaultChatConfig(),
		Gateway:  defaultGatewayConfig(),
		Channels: ChannelsConfig{Slack: defaultSlackConfig()},
		Refresh:  defaultRefreshConfig(),
	}
}
