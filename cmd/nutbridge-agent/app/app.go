package app

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/nutbridge-io/nutbridge/cmd/nutbridge-agent/app/options"
	"github.com/nutbridge-io/nutbridge/pkg/app"
)

const (
	commandName = "nutbridge-agent"
	commandDesc = `The nutbridge agent polls a NUT daemon for UPS state, normalizes it into
a flat reading and emits one UDP datagram per cycle to a telemetry
receiver. When acquisition fails it keeps emitting degraded heartbeats so
consumers can tell a UPS problem apart from a dead bridge.`
)

func NewApp() *app.App {
	opts := options.NewAgentOptions()
	application := app.NewApp(
		commandName,
		"Launch the NUT to UDP telemetry bridge",
		app.WithDescription(commandDesc),
		app.WithOptions(opts),
		app.WithDefaultValidArgs(),
		app.WithRunFunc(run(opts)),
	)
	application.Command().AddCommand(newCheckCommand())
	return application
}

func run(opts *options.AgentOptions) app.RunFunc {
	return func() error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		cfg, err := opts.Config()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		agent, err := cfg.NewAgent()
		if err != nil {
			return fmt.Errorf("failed to create agent: %w", err)
		}

		return agent.Run(ctx)
	}
}
