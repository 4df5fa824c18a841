package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. AIRCURSOR_LOOP_FPS.
const EnvPrefix = "AIRCURSOR"

// Init applies defaults and environment bindings to v and reads the config
// file. With cfgFile empty it looks for aircursor.yaml in the working
// directory and then in ~/.aircursor; a missing file is not an error.
func Init(v *viper.Viper, cfgFile string) error {
	SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".aircursor"))
		}
		v.SetConfigName("aircursor")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && (errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist)) {
			return nil
		}
		return fmt.Errorf("error reading config file: %w", err)
	}
	return nil
}
