// Package config provides centralized management for application settings, defaults, and the Viper-based configuration engine.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/marquee-cli/marquee/constant"
	"github.com/marquee-cli/marquee/filesystem"
	"github.com/marquee-cli/marquee/where"
	"github.com/spf13/viper"
)

// EnvKeyReplacer maps dotted keys to the MARQUEE_ variable names.
var EnvKeyReplacer = strings.NewReplacer(".", "_")

// Setup registers the defaults, binds the environment and reads where.ConfigFile
// when it exists. Values from the environment win over the file.
func Setup() error {
	viper.SetFs(filesystem.API())
	viper.SetConfigName(constant.Marquee)
	viper.SetConfigType("toml")
	viper.AddConfigPath(where.Config())

	viper.SetTypeByDefaultValue(true)
	for _, field := range fields {
		viper.SetDefault(field.Key, field.Value)
	}

	viper.SetEnvPrefix(constant.Marquee)
	viper.SetEnvKeyReplacer(EnvKeyReplacer)
	for _, name := range EnvExposed {
		viper.MustBindEnv(name)
	}

	err := viper.ReadInConfig()
	if err != nil && !errors.As(err, &viper.ConfigFileNotFoundError{}) {
		return fmt.Errorf("read %s: %w", where.ConfigFile(), err)
	}
	return nil
}
