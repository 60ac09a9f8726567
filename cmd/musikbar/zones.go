package main

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func zonesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "zones",
		Short: "List available zones",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := fromContext(cmd)
			if _, err := c.start(cmd); err != nil {
				return err
			}

			zones := c.app.Zones()
			if c.jsonOut {
				return c.printJSON(zones)
			}

			selected := c.app.SelectedZoneID()
			data := pterm.TableData{{"", "name", "type", "state"}}
			for _, z := range zones {
				marker := ""
				if z.ID == selected {
					marker = "*"
				}
				kind := "player"
				if z.IsGroup {
					kind = "group"
				}
				state := "idle"
				if z.IsPlaying {
					state = "playing"
				}
				data = append(data, []string{marker, z.Name, kind, state})
			}
			return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
		},
	}
}

func zoneCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "zone [name]",
		Short: "Show or change the selected zone",
		Args:  cobra.RangeArgs(0, 1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := fromContext(cmd)
			if _, err := c.start(cmd); err != nil {
				return err
			}

			if len(args) == 1 {
				if err := c.app.SetZoneByName(args[0]); err != nil {
					return err
				}
			}

			selected := c.app.SelectedZoneID()
			for _, z := range c.app.Zones() {
				if z.ID == selected {
					if c.jsonOut {
						return c.printJSON(z)
					}
					pterm.Println(z.Name)
					return nil
				}
			}
			pterm.Println("no zone selected")
			return nil
		},
	}
}
