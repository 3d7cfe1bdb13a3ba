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

// Package app provides the scaffolding shared by all commands: cobra command
// construction, viper configuration loading and option validation.
package app

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/nutbridge-io/nutbridge/pkg/log"
)

// RunFunc defines the application's startup callback.
type RunFunc func() error

// App is the main structure of a cli application.
// It is recommended that an App be created with the NewApp() function.
type App struct {
	name        string
	shortDesc   string
	description string
	options     CliOptions
	runFunc     RunFunc
	silence     bool
	noConfig    bool
	args        cobra.PositionalArgs

	cmd *cobra.Command
}

// Option defines optional parameters for initializing the App structure.
type Option func(*App)

// WithOptions opens the application's function to read from the command line
// or read parameters from the configuration file.
func WithOptions(opts CliOptions) Option {
	return func(a *App) {
		a.options = opts
	}
}

// WithRunFunc sets the application startup callback function.
func WithRunFunc(run RunFunc) Option {
	return func(a *App) {
		a.runFunc = run
	}
}

// WithDescription sets the long description of the application.
func WithDescription(desc string) Option {
	return func(a *App) {
		a.description = desc
	}
}

// WithSilence disables the startup banner log line.
func WithSilence() Option {
	return func(a *App) {
		a.silence = true
	}
}

// WithNoConfig disables the configuration file flag.
func WithNoConfig() Option {
	return func(a *App) {
		a.noConfig = true
	}
}

// WithDefaultValidArgs rejects any positional arguments.
func WithDefaultValidArgs() Option {
	return func(a *App) {
		a.args = cobra.NoArgs
	}
}

// NewApp creates an App based on the given name, short description and
// options.
func NewApp(name string, shortDesc string, opts ...Option) *App {
	a := &App{
		name:      name,
		shortDesc: shortDesc,
	}

	for _, o := range opts {
		o(a)
	}

	a.buildCommand()

	return a
}

func (a *App) buildCommand() {
	cmd := &cobra.Command{
		Use:           a.name,
		Short:         a.shortDesc,
		Long:          a.description,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          a.args,
	}
	cmd.SetOut(os.Stdout)
	cmd.SetErr(os.Stderr)

	fs := cmd.Flags()
	fs.SortFlags = true
	if a.options != nil {
		a.options.AddFlags(fs)
	}
	if !a.noConfig {
		addConfigFlag(a.name, fs)
	}

	cmd.RunE = a.runCommand
	a.cmd = cmd
}

// Command returns the underlying cobra command, so callers can attach
// subcommands before Run.
func (a *App) Command() *cobra.Command {
	return a.cmd
}

// Run launches the application.
func (a *App) Run() {
	if err := a.cmd.Execute(); err != nil {
		fmt.Fprintf(a.cmd.ErrOrStderr(), "Error: %v\n", err)
		os.Exit(1)
	}
}

func (a *App) runCommand(cmd *cobra.Command, args []string) error {
	if a.options != nil {
		if err := a.applyOptions(cmd); err != nil {
			return err
		}
	}

	if !a.silence {
		log.Info("Starting application", "name", a.name, "pid", os.Getpid())
	}

	if a.runFunc != nil {
		return a.runFunc()
	}
	return nil
}

// applyOptions merges configuration file values into the options, then
// completes and validates them. Explicit command line flags win over the
// configuration file.
func (a *App) applyOptions(cmd *cobra.Command) error {
	if !a.noConfig {
		if err := viper.BindPFlags(cmd.Flags()); err != nil {
			return fmt.Errorf("bind flags: %w", err)
		}
		if err := viper.Unmarshal(a.options); err != nil {
			return fmt.Errorf("unmarshal configuration: %w", err)
		}
	}

	if completeable, ok := a.options.(CompleteableOptions); ok {
		if err := completeable.Complete(); err != nil {
			return fmt.Errorf("complete options: %w", err)
		}
	}

	if errs := a.options.Validate(); len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}

	if provider, ok := a.options.(LogOptionsProvider); ok {
		log.Init(provider.LogOptions())
	}

	return nil
}
