package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// NumberingConfig controls document number allocation.
type NumberingConfig struct {
	// Prefixes maps a document type to its number prefix, overriding the
	// built-in table. Keys are document type names, values 2-4 letter codes.
	Prefixes map[string]string `mapstructure:"prefixes"`

	// MaxAllocationAttempts bounds the retry loop when a composed number
	// collides with an existing latest record.
	MaxAllocationAttempts int `mapstructure:"maxAllocationAttempts"`
}

func DefaultNumberingConfig() NumberingConfig {
	return NumberingConfig{
		Prefixes:              map[string]string{},
		MaxAllocationAttempts: 5,
	}
}

// NumberingConfigHolder exposes the current numbering config and hot-reloads
// it when the config file changes. Invalid updates are ignored.
type NumberingConfigHolder struct {
	current atomic.Value // holds NumberingConfig
}

func NewNumberingConfigHolder() (*NumberingConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("numbering")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/mjestimate/config")
	v.AddConfigPath("/etc/mjestimate")
	v.AddConfigPath(".")

	v.SetEnvPrefix("MJESTIMATE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		defaults := DefaultNumberingConfig()
		v.SetDefault("numbering.prefixes", defaults.Prefixes)
		v.SetDefault("numbering.maxAllocationAttempts", defaults.MaxAllocationAttempts)
	}

	var cfg NumberingConfig
	if err := v.UnmarshalKey("numbering", &cfg); err != nil {
		return nil, err
	}
	applyNumberingDefaults(&cfg)
	if err := validateNumberingConfig(cfg); err != nil {
		return nil, err
	}

	holder := &NumberingConfigHolder{}
	holder.current.Store(cfg)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated NumberingConfig
		if err := v.UnmarshalKey("numbering", &updated); err != nil {
			log.Printf("[numbering-config] reload failed: %v", err)
			return
		}
		applyNumberingDefaults(&updated)
		if err := validateNumberingConfig(updated); err != nil {
			log.Printf("[numbering-config] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[numbering-config] reloaded from %s", e.Name)
	})

	return holder, nil
}

// Current returns the active numbering config.
func (h *NumberingConfigHolder) Current() NumberingConfig {
	return h.current.Load().(NumberingConfig)
}

func applyNumberingDefaults(cfg *NumberingConfig) {
	if cfg.Prefixes == nil {
		cfg.Prefixes = map[string]string{}
	}
	if cfg.MaxAllocationAttempts == 0 {
		cfg.MaxAllocationAttempts = DefaultNumberingConfig().MaxAllocationAttempts
	}
}

func validateNumberingConfig(cfg NumberingConfig) error {
	if cfg.MaxAllocationAttempts < 1 {
		return errors.New("numbering.maxAllocationAttempts must be >= 1")
	}
	for docType, prefix := range cfg.Prefixes {
		prefix = strings.TrimSpace(prefix)
		if len(prefix) < 2 || len(prefix) > 4 {
			return errors.New("numbering.prefixes." + docType + " must be 2-4 characters")
		}
		for _, r := range prefix {
			if r < 'A' || r > 'Z' {
				return errors.New("numbering.prefixes." + docType + " must be uppercase letters")
			}
		}
	}
	return nil
}
