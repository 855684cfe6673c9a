package stations

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/parsa000721/CopTrack/apps/cli/cmd/clienv"
	stationsservice "github.com/parsa000721/CopTrack/domains/stations/be/service"
	"github.com/parsa000721/CopTrack/platform/go/datastore"
	"github.com/parsa000721/CopTrack/platform/go/models"
)

// Command groups station helpers.
func Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stations",
		Short: "Station utilities (list, activate, deactivate)",
	}

	cmd.AddCommand(listCommand())
	cmd.AddCommand(setActiveCommand())
	return cmd
}

func listCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stations and their status",
		RunE: func(cmd *cobra.Command, args []string) error {
			session, _, err := clienv.Open(cmd.Context())
			if err != nil {
				return err
			}
			defer session.Close()

			list, err := stationsservice.New(session.DB).List(cmd.Context())
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tACTIVE")
			for _, st := range list {
				fmt.Fprintf(tw, "%s\t%s\t%t\n", st.ID, st.Name, st.Active)
			}
			return tw.Flush()
		},
	}
}

func setActiveCommand() *cobra.Command {
	var (
		active bool
		actor  string
	)

	c := &cobra.Command{
		Use:   "set-active <station-id>",
		Short: "Activate or deactivate a station",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, _, err := clienv.Open(cmd.Context())
			if err != nil {
				return err
			}
			defer session.Close()

			admin, err := resolveActor(session.DB.View(), actor)
			if err != nil {
				return err
			}

			st, err := stationsservice.New(session.DB).SetActive(cmd.Context(), admin, args[0], active)
			if err != nil {
				return fmt.Errorf("set station status: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s active=%t\n", st.ID, st.Active)
			return nil
		},
	}

	c.Flags().BoolVar(&active, "active", true, "target status")
	c.Flags().StringVar(&actor, "as", datastore.SeedAdminID, "administrator recorded in the activity log")
	return c
}

func resolveActor(state *datastore.State, id string) (models.User, error) {
	user, _, ok := state.User(id)
	if !ok {
		return models.User{}, fmt.Errorf("user %q not found", id)
	}
	if !user.IsAdmin() {
		return models.User{}, errors.New("--as must name an administrator")
	}
	return user, nil
}
