package main

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/ulilicht/Musikbar/internal/view"
)

func favouritesCommand() *cobra.Command {
	var source string

	cmd := &cobra.Command{
		Use:   "favourites",
		Short: "List the favourites strip",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := fromContext(cmd)
			ctx, err := c.start(cmd)
			if err != nil {
				return err
			}

			var favourites []view.Favourite
			if source != "" {
				favourites, err = c.app.FavouritesFor(ctx, source)
				if err != nil {
					return err
				}
			} else {
				favourites = c.app.Favourites()
			}

			if c.jsonOut {
				return c.printJSON(favourites)
			}
			data := pterm.TableData{{"name", "category", "id"}}
			for _, f := range favourites {
				data = append(data, []string{f.Name, f.Category, f.ID})
			}
			return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
		},
	}
	cmd.Flags().StringVarP(&source, "source", "s", "", "one-off source (recents|radio|favorites_playlist|random_artist)")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "play <id-or-uri>",
			Short: "Play a favourite on the selected zone",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				c := fromContext(cmd)
				ctx, err := c.start(cmd)
				if err != nil {
					return err
				}
				return c.app.PlayFavourite(ctx, args[0])
			},
		},
		&cobra.Command{
			Use:   "set-source <source>",
			Short: "Persist the favourites source",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				c := fromContext(cmd)
				if _, err := c.start(cmd); err != nil {
					return err
				}
				return c.app.ChangeFavouritesSource(args[0])
			},
		},
	)

	return cmd
}
