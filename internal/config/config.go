package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

// GameConfig is the resolved launcher configuration.
type GameConfig struct {
	LogLevel     string
	WindowW      int
	WindowH      int
	GridW        int
	GridH        int
	Seed         int64
	Tanks        int
	AutoFire     bool
	AudioEnabled bool
	ReportWindow int
}

// Load reads configuration from the JSON file in configDir and sets
// default values. A missing file is fine, the defaults stand.
func Load(configDir string) error {
	viper.SetDefault("logLevel", "info")

	viper.SetDefault("window.width", 1280)
	viper.SetDefault("window.height", 720)

	viper.SetDefault("grid.width", 320)
	viper.SetDefault("grid.height", 180)

	viper.SetDefault("sim.seed", 0) // 0 picks a clock seed at startup
	viper.SetDefault("sim.tanks", 2)
	viper.SetDefault("sim.autoFire", false)

	viper.SetDefault("audio.enabled", true)

	viper.SetDefault("report.windowTicks", 3600)

	viper.SetConfigName("bernard.cfg.json")
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("error reading config file: %w", err)
	}
	return nil
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetInt64 returns an int64 config value.
func GetInt64(key string) int64 {
	return viper.GetInt64(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetGameConfig assembles the launcher settings from the loaded state.
func GetGameConfig() GameConfig {
	return GameConfig{
		LogLevel:     viper.GetString("logLevel"),
		WindowW:      viper.GetInt("window.width"),
		WindowH:      viper.GetInt("window.height"),
		GridW:        viper.GetInt("grid.width"),
		GridH:        viper.GetInt("grid.height"),
		Seed:         viper.GetInt64("sim.seed"),
		Tanks:        viper.GetInt("sim.tanks"),
		AutoFire:     viper.GetBool("sim.autoFire"),
		AudioEnabled: viper.GetBool("audio.enabled"),
		ReportWindow: viper.GetInt("report.windowTicks"),
	}
}
