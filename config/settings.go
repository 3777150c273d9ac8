// Package config loads runtime settings and action set definitions.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/milk9111/rebind/bindings"
	"github.com/spf13/viper"
)

// Settings are the user-tunable runtime options.
type Settings struct {
	SaveDir       string          `mapstructure:"save_dir"`
	SaveFile      string          `mapstructure:"save_file"`
	SaveExt       string          `mapstructure:"save_ext"`
	ActionsFile   string          `mapstructure:"actions_file"`
	WatchBindings bool            `mapstructure:"watch_bindings"`
	Logging       LoggingSettings `mapstructure:"logging"`
}

type LoggingSettings struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// BindingsPath is where the custom bindings are saved.
func (s *Settings) BindingsPath() string {
	return filepath.Join(s.SaveDir, s.SaveFile+"."+s.SaveExt)
}

// NewStore returns a bindings store for the configured file.
func (s *Settings) NewStore(opts ...bindings.Option) *bindings.Store {
	return bindings.NewStore(s.SaveDir, s.SaveFile, s.SaveExt, opts...)
}

// Load reads settings from file, or from rebind.{yaml,json,toml} in the config
// dir or working directory when file is empty. A missing config file is not
// an error. REBIND_* environment variables override file values.
func Load(file string) (*Settings, error) {
	dir, err := ConfigDir()
	if err != nil {
		return nil, fmt.Errorf("config: resolve config dir: %w", err)
	}

	v := viper.New()
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName(appName)
		v.AddConfigPath(dir)
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("REBIND")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("save_dir", dir)
	v.SetDefault("save_file", bindings.DefaultFileName)
	v.SetDefault("save_ext", bindings.DefaultExtension)
	v.SetDefault("actions_file", "")
	v.SetDefault("watch_bindings", true)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: read %s: %w", v.ConfigFileUsed(), err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	if s.SaveFile == "" || s.SaveExt == "" {
		return nil, errors.New("config: save_file and save_ext must not be empty")
	}
	return &s, nil
}
