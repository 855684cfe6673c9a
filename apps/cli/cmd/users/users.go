package users

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/parsa000721/CopTrack/apps/cli/cmd/clienv"
	usersservice "github.com/parsa000721/CopTrack/domains/users/be/service"
)

// Command groups user helpers.
func Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "User utilities",
	}

	cmd.AddCommand(listCommand())
	return cmd
}

func listCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List users with their role and station",
		RunE: func(cmd *cobra.Command, args []string) error {
			session, _, err := clienv.Open(cmd.Context())
			if err != nil {
				return err
			}
			defer session.Close()

			list, err := usersservice.New(session.DB, session.Hasher).List(cmd.Context())
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tSSO ID\tNAME\tROLE\tSTATION")
			for _, u := range list {
				station := u.StationName
				if station == "" {
					station = "-"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", u.ID, u.SSOID, u.Name, u.Role, station)
			}
			return tw.Flush()
		},
	}
}
