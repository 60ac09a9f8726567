// Command musikbar is the terminal front end for the Musikbar core:
// it connects to a Music Assistant hub, shows zones and now-playing
// state and issues playback commands.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ulilicht/Musikbar/internal/app"
	"github.com/ulilicht/Musikbar/internal/settings"
)

type cli struct {
	app     *app.App
	log     *zap.Logger
	jsonOut bool
	timeout time.Duration
	updates chan struct{}
	cancel  context.CancelFunc
}

type ctxKey struct{}

func fromContext(cmd *cobra.Command) *cli {
	return cmd.Context().Value(ctxKey{}).(*cli)
}

func main() {
	var (
		configPath string
		statePath  string
		timeout    time.Duration
		jsonOut    bool
		debug      bool
	)

	root := &cobra.Command{
		Use:           "musikbar",
		Short:         "Music Assistant companion",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "settings file path")
	root.PersistentFlags().StringVar(&statePath, "state", "", "zone state file path")
	root.PersistentFlags().DurationVarP(&timeout, "timeout", "t", 15*time.Second, "time to wait for the hub")
	root.PersistentFlags().BoolVarP(&jsonOut, "json", "j", false, "output json")
	root.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "verbose logging")

	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		log, err := app.NewLogger(debug)
		if err != nil {
			return err
		}
		settingsStore, err := settings.NewStore(configPath)
		if err != nil {
			return err
		}
		zoneState, err := settings.NewZoneState(statePath)
		if err != nil {
			return err
		}

		c := &cli{
			log:     log,
			jsonOut: jsonOut,
			timeout: timeout,
			updates: make(chan struct{}, 1),
		}
		c.app = app.New(log, settingsStore, zoneState, func() {
			select {
			case c.updates <- struct{}{}:
			default:
			}
		})
		cmd.SetContext(context.WithValue(cmd.Context(), ctxKey{}, c))
		return nil
	}
	root.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		c := fromContext(cmd)
		if c.cancel != nil {
			c.cancel()
		}
		_ = c.log.Sync()
	}

	root.AddCommand(statusCommand(), zonesCommand(), zoneCommand())
	root.AddCommand(playbackCommands()...)
	root.AddCommand(favouritesCommand(), configCommand())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// start connects to the hub and waits until auth and bootstrap
// finish.
func (c *cli) start(cmd *cobra.Command) (context.Context, error) {
	ctx, cancel := context.WithCancel(cmd.Context())
	c.cancel = cancel

	if err := c.app.Run(ctx); err != nil {
		if errors.Is(err, app.ErrSetupRequired) {
			return nil, errors.New("not configured: set server-url and token with 'musikbar config set'")
		}
		return nil, err
	}

	waitCtx, waitCancel := context.WithTimeout(ctx, c.timeout)
	defer waitCancel()
	if err := c.app.WaitReady(waitCtx); err != nil {
		return nil, fmt.Errorf("hub not ready within %s", c.timeout)
	}
	return ctx, nil
}

func (c *cli) printJSON(v any) error {
	payload, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(payload))
	return nil
}
