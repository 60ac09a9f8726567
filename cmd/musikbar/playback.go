package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func playbackCommands() []*cobra.Command {
	return []*cobra.Command{
		simpleAction("play-pause", "Toggle playback on the selected zone",
			func(ctx context.Context, c *cli) error { return c.app.PlayPause(ctx) }),
		simpleAction("next", "Skip to the next item",
			func(ctx context.Context, c *cli) error { return c.app.Next(ctx) }),
		simpleAction("previous", "Skip back one item",
			func(ctx context.Context, c *cli) error { return c.app.Previous(ctx) }),
		simpleAction("mute", "Toggle mute on the selected zone",
			func(ctx context.Context, c *cli) error { return c.app.ToggleMute(ctx) }),
		volumeCommand(),
	}
}

func simpleAction(use, short string, run func(ctx context.Context, c *cli) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := fromContext(cmd)
			ctx, err := c.start(cmd)
			if err != nil {
				return err
			}
			return run(ctx, c)
		},
	}
}

func volumeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "volume <0-100>",
		Short: "Set the volume of the selected zone",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			level, err := parseVolume(args[0])
			if err != nil {
				return err
			}
			c := fromContext(cmd)
			ctx, err := c.start(cmd)
			if err != nil {
				return err
			}
			return c.app.SetVolumeNow(ctx, level)
		},
	}
}

func parseVolume(arg string) (int, error) {
	level, err := strconv.Atoi(arg)
	if err != nil || level < 0 || level > 100 {
		return 0, fmt.Errorf("volume must be a number between 0 and 100, got %q", arg)
	}
	return level, nil
}
