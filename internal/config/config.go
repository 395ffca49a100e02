// Package config loads application settings with viper.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// FileName is the optional config file looked up in the config directory.
const FileName = "cubetwist.json"

// Settings is the typed view of the loaded configuration.
type Settings struct {
	LogLevel    string            `json:"logLevel" mapstructure:"logLevel"`
	LogsDir     string            `json:"logsDir" mapstructure:"logsDir"`
	DBPath      string            `json:"dbPath" mapstructure:"dbPath"`
	Render      RenderConfig      `json:"render" mapstructure:"render"`
	Camera      CameraConfig      `json:"camera" mapstructure:"camera"`
	Interaction InteractionConfig `json:"interaction" mapstructure:"interaction"`
	Animation   AnimationConfig   `json:"animation" mapstructure:"animation"`
	Device      DeviceConfig      `json:"device" mapstructure:"device"`
	Journal     JournalConfig     `json:"journal" mapstructure:"journal"`
}

// RenderConfig holds frame loop settings.
type RenderConfig struct {
	FPS           int           `json:"fps" mapstructure:"fps"`
	FOV           float64       `json:"fov" mapstructure:"fov"`
	MaxFrameDelta time.Duration `json:"maxFrameDelta" mapstructure:"maxFrameDelta"`
}

// CameraConfig holds the initial orbit camera.
type CameraConfig struct {
	Distance float64 `json:"distance" mapstructure:"distance"`
	Yaw      float64 `json:"yaw" mapstructure:"yaw"`
	Pitch    float64 `json:"pitch" mapstructure:"pitch"`
}

// InteractionConfig holds pointer handling settings.
type InteractionConfig struct {
	DragSensitivity   float64 `json:"dragSensitivity" mapstructure:"dragSensitivity"`
	LiftScale         float64 `json:"liftScale" mapstructure:"liftScale"`
	GrabWhileSettling bool    `json:"grabWhileSettling" mapstructure:"grabWhileSettling"`
}

// AnimationConfig holds snap and idle spin settings.
type AnimationConfig struct {
	Easing     float64 `json:"easing" mapstructure:"easing"`
	AutoRotate bool    `json:"autoRotate" mapstructure:"autoRotate"`
}

// DeviceConfig holds BLE settings.
type DeviceConfig struct {
	ScanTimeout time.Duration `json:"scanTimeout" mapstructure:"scanTimeout"`
}

// JournalConfig controls the twist journal.
type JournalConfig struct {
	Enabled bool `json:"enabled" mapstructure:"enabled"`
}

// DefaultDir returns ~/.cubetwist.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".cubetwist"), nil
}

// Load sets defaults relative to configDir and reads the optional config
// file from it. A missing file is not an error.
func Load(configDir string) error {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", filepath.Join(configDir, "logs"))
	viper.SetDefault("dbPath", filepath.Join(configDir, "cubetwist.db"))

	viper.SetDefault("render.fps", 30)
	viper.SetDefault("render.fov", 75.0)
	viper.SetDefault("render.maxFrameDelta", "100ms")

	viper.SetDefault("camera.distance", 5.2)
	viper.SetDefault("camera.yaw", -45.0)
	viper.SetDefault("camera.pitch", 35.0)

	viper.SetDefault("interaction.dragSensitivity", 0.05)
	viper.SetDefault("interaction.liftScale", 1.05)
	viper.SetDefault("interaction.grabWhileSettling", true)

	viper.SetDefault("animation.easing", 10.0)
	viper.SetDefault("animation.autoRotate", false)

	viper.SetDefault("device.scanTimeout", "5s")

	viper.SetDefault("journal.enabled", true)

	viper.SetConfigName(FileName)
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	err := viper.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("error reading config file: %w", err)
	}
	return nil
}

// Current decodes the loaded configuration into Settings.
func Current() (Settings, error) {
	var s Settings
	if err := viper.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("error decoding config: %w", err)
	}
	s.LogsDir = expandHome(s.LogsDir)
	s.DBPath = expandHome(s.DBPath)
	if s.Render.FPS <= 0 {
		return Settings{}, fmt.Errorf("render.fps must be positive, got %d", s.Render.FPS)
	}
	return s, nil
}

// UsedFile returns the config file that was read, or "".
func UsedFile() string {
	return viper.ConfigFileUsed()
}

// Set overrides a key, used for command-line flags.
func Set(key string, value any) {
	viper.Set(key, value)
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}
