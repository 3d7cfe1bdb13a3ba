// Copyright 2026 The Nutbridge Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/nutbridge-io/nutbridge/pkg/log"
)

const configFlagName = "config"

var cfgFile string

// addConfigFlag registers the --config flag and arranges for the
// configuration file to be loaded before the command runs. Environment
// variables with the command's name as prefix override file values, so
// NUTBRIDGE_AGENT_UDP_ADDR maps to udp.addr.
func addConfigFlag(basename string, fs *pflag.FlagSet) {
	fs.StringVarP(&cfgFile, configFlagName, "c", cfgFile, "Path to the configuration file.")

	viper.SetEnvPrefix(strings.ReplaceAll(strings.ToUpper(basename), "-", "_"))
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	cobra.OnInitialize(func() {
		if cfgFile != "" {
			viper.SetConfigFile(cfgFile)
		} else {
			viper.AddConfigPath(".")
			viper.AddConfigPath(filepath.Join("/etc", basename))
			viper.SetConfigName(basename)
		}

		if err := viper.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if cfgFile == "" && errors.As(err, &notFound) {
				// Running on flags and environment alone is fine.
				return
			}
			fmt.Fprintf(os.Stderr, "Error: failed to read configuration file: %v\n", err)
			os.Exit(1)
		}

		// The agent applies configuration once at startup. Log edits to the
		// file so an operator knows a restart is needed to pick them up.
		viper.WatchConfig()
		viper.OnConfigChange(func(e fsnotify.Event) {
			log.Info("Configuration file changed, restart to apply", "file", e.Name, "op", e.Op.String())
		})
	})
}
