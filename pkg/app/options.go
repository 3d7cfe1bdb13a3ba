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
	"github.com/spf13/pflag"

	"github.com/nutbridge-io/nutbridge/pkg/log"
)

// CliOptions abstracts the configuration options of a command.
type CliOptions interface {
	// AddFlags binds the options to the command's flag set.
	AddFlags(fs *pflag.FlagSet)
	// Validate checks the options and returns any errors found.
	Validate() []error
}

// CompleteableOptions is implemented by options that need defaulting after
// flags and configuration files have been applied.
type CompleteableOptions interface {
	Complete() error
}

// LogOptionsProvider is implemented by options that carry a logging section.
// The application initializes the global logger from it before running.
type LogOptionsProvider interface {
	LogOptions() *log.Options
}
