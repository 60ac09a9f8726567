package main

import (
	"fmt"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/ulilicht/Musikbar/internal/settings"
)

func configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change settings",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the current settings",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				c := fromContext(cmd)
				store, err := settingsStore(cmd)
				if err != nil {
					return err
				}
				cfg, err := store.Load()
				if err != nil {
					return err
				}
				if c.jsonOut {
					return c.printJSON(cfg)
				}
				token := ""
				if cfg.Token != "" {
					token = "(set)"
				}
				data := pterm.TableData{
					{"server-url", cfg.ServerURL},
					{"token", token},
					{"favourites-source", cfg.FavouritesSource},
					{"autostart", strconv.FormatBool(cfg.Autostart)},
				}
				return pterm.DefaultTable.WithData(data).Render()
			},
		},
		&cobra.Command{
			Use:   "set <key> <value>",
			Short: "Change one setting",
			Long:  "Keys: server-url, token, favourites-source, autostart",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				store, err := settingsStore(cmd)
				if err != nil {
					return err
				}
				key, value := args[0], args[1]
				switch key {
				case "server-url", "token", "favourites-source", "autostart":
				default:
					return fmt.Errorf("unknown key %q", key)
				}
				_, err = store.Update(func(s *settings.Settings) {
					switch key {
					case "server-url":
						s.ServerURL = value
					case "token":
						s.Token = value
					case "favourites-source":
						s.FavouritesSource = value
					case "autostart":
						s.Autostart = value == "true"
					}
				})
				return err
			},
		},
		&cobra.Command{
			Use:   "path",
			Short: "Print the settings file location",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				store, err := settingsStore(cmd)
				if err != nil {
					return err
				}
				pterm.Println(store.Path())
				return nil
			},
		},
	)

	return cmd
}

func settingsStore(cmd *cobra.Command) (*settings.Store, error) {
	path, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return nil, err
	}
	return settings.NewStore(path)
}
