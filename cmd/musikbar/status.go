package main

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/ulilicht/Musikbar/internal/view"
)

type statusResult struct {
	Zone       view.Zone       `json:"zone"`
	NowPlaying view.NowPlaying `json:"now_playing"`
}

func statusCommand() *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show what the selected zone is playing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := fromContext(cmd)
			ctx, err := c.start(cmd)
			if err != nil {
				return err
			}

			if err := printStatus(c); err != nil {
				return err
			}
			if !watch {
				return nil
			}
			for {
				select {
				case <-ctx.Done():
					return nil
				case <-c.updates:
					if err := printStatus(c); err != nil {
						return err
					}
				}
			}
		},
	}
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "keep printing on every change")

	return cmd
}

func printStatus(c *cli) error {
	zones := c.app.Zones()
	selected := c.app.SelectedZoneID()
	var zone view.Zone
	for _, z := range zones {
		if z.ID == selected {
			zone = z
			break
		}
	}
	np := c.app.NowPlaying()

	if c.jsonOut {
		return c.printJSON(statusResult{Zone: zone, NowPlaying: np})
	}

	state := "paused"
	if np.IsPlaying {
		state = "playing"
	}
	track := np.Track
	if track == "" {
		track = "-"
	}
	artist := np.Artist
	if artist == "" {
		artist = "-"
	}

	pterm.DefaultSection.Println(zone.Name)
	data := pterm.TableData{
		{"track", track},
		{"artist", artist},
		{"state", state},
		{"volume", volumeLabel(np)},
	}
	return pterm.DefaultTable.WithData(data).Render()
}

func volumeLabel(np view.NowPlaying) string {
	if np.IsMuted {
		return "muted"
	}
	return pterm.Sprintf("%d%%", np.Volume)
}
