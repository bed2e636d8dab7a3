// Package where implements a cross-platform resolver for application-specific filesystem paths.
package where

import (
	"os"
	"path/filepath"

	"github.com/marquee-cli/marquee/constant"
	"github.com/marquee-cli/marquee/filesystem"
	"github.com/marquee-cli/marquee/key"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// EnvConfigPath is the environment variable identifier used to override the default configuration directory.
const EnvConfigPath = "MARQUEE_CONFIG_PATH"

func ensureDir(path string) string {
	lo.Must0(filesystem.API().MkdirAll(path, os.ModePerm))
	return path
}

// Config resolves the absolute path to the primary application configuration directory.
// The path can be overridden via the MARQUEE_CONFIG_PATH environment variable.
func Config() string {
	if custom, ok := os.LookupEnv(EnvConfigPath); ok {
		return ensureDir(custom)
	}

	base := lo.Must(os.UserConfigDir())
	return ensureDir(filepath.Join(base, constant.Marquee))
}

// ConfigFile resolves the path of the TOML settings file.
func ConfigFile() string {
	return filepath.Join(Config(), constant.Marquee+".toml")
}

// Cache resolves the absolute path to the application's persistent cache directory.
func Cache() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = filepath.Join(".", "cache")
	}
	return ensureDir(filepath.Join(base, constant.Marquee))
}

// Logs resolves the absolute path to the directory used for application diagnostic logs.
func Logs() string {
	return ensureDir(filepath.Join(Config(), "logs"))
}

// History resolves the path to the playback progress file.
func History() string {
	return filepath.Join(Config(), "history.json")
}

// Preferences resolves the path to the stored quality preferences.
func Preferences() string {
	return filepath.Join(Config(), "quality.json")
}

// Thumbnails resolves the directory holding persisted thumbnail indexes.
// The thumbnails.dir setting wins over the cache directory.
func Thumbnails() string {
	if custom := viper.GetString(key.ThumbnailsDir); custom != "" {
		return ensureDir(custom)
	}
	return ensureDir(filepath.Join(Cache(), "thumbnails"))
}

// Temp resolves a volatile directory for transient artifacts such as caption files handed to the player.
func Temp() string {
	return ensureDir(filepath.Join(os.TempDir(), constant.Marquee))
}
