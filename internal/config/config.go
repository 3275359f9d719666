package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const DefaultChannelURL = "https://whatsapp.com/channel/0029Vb6XfBh1SWt6Xg8pqG0Q"

type Config struct {
	Addr       string
	LogLevel   string
	PublicURL  string
	ChannelURL string

	StoreDriver string // sqlite | memory | valkey
	StorePath   string
	ValkeyAddr  string

	EmailReminders     bool
	MessagingReminders bool
}

// Load reads defaults, then the optional config file, then ATYPICO_* env vars.
func Load(file string) (Config, error) {
	v := viper.New()
	v.SetDefault("addr", ":8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("public_url", "http://localhost:8080")
	v.SetDefault("whatsapp_channel_url", DefaultChannelURL)
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.path", "atypico.db")
	v.SetDefault("store.valkey_addr", "127.0.0.1:6379")
	v.SetDefault("reminders.email", true)
	v.SetDefault("reminders.messaging", true)

	v.SetEnvPrefix("ATYPICO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", file, err)
		}
	}

	cfg := Config{
		Addr:               v.GetString("addr"),
		LogLevel:           v.GetString("log.level"),
		PublicURL:          strings.TrimRight(v.GetString("public_url"), "/"),
		ChannelURL:         v.GetString("whatsapp_channel_url"),
		StoreDriver:        strings.ToLower(strings.TrimSpace(v.GetString("store.driver"))),
		StorePath:          v.GetString("store.path"),
		ValkeyAddr:         v.GetString("store.valkey_addr"),
		EmailReminders:     v.GetBool("reminders.email"),
		MessagingReminders: v.GetBool("reminders.messaging"),
	}
	switch cfg.StoreDriver {
	case "sqlite", "memory", "valkey":
	default:
		return Config{}, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
	return cfg, nil
}
