package snapshot

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/parsa000721/CopTrack/apps/cli/cmd/clienv"
	"github.com/parsa000721/CopTrack/platform/go/setups"
)

// Command groups snapshot helpers.
func Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Snapshot utilities (seed, export, copy between backends)",
	}

	cmd.AddCommand(seedCommand())
	cmd.AddCommand(exportCommand())
	cmd.AddCommand(copyCommand())
	return cmd
}

func seedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Write the default district data unless a snapshot already exists",
		RunE: func(cmd *cobra.Command, args []string) error {
			session, _, err := clienv.Open(cmd.Context())
			if err != nil {
				return err
			}
			defer session.Close()

			state := session.DB.View()
			fmt.Fprintf(cmd.OutOrStdout(), "snapshot ready: %d stations, %d users, %d records\n",
				len(state.Stations), len(state.Users), len(state.Records))
			return nil
		},
	}
}

func exportCommand() *cobra.Command {
	var out string

	c := &cobra.Command{
		Use:   "export",
		Short: "Write every snapshot document as one JSON object",
		RunE: func(cmd *cobra.Command, args []string) error {
			session, _, err := clienv.Open(cmd.Context())
			if err != nil {
				return err
			}
			defer session.Close()

			docs, err := session.DB.Documents()
			if err != nil {
				return fmt.Errorf("encode state: %w", err)
			}

			data, err := json.MarshalIndent(docs, "", "  ")
			if err != nil {
				return fmt.Errorf("marshal documents: %w", err)
			}
			data = append(data, '\n')

			if out == "" || out == "-" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(out, data, 0o600); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "exported %d documents to %s\n", len(docs), out)
			return nil
		},
	}

	c.Flags().StringVar(&out, "out", "-", "output file, - for stdout")
	return c
}

func copyCommand() *cobra.Command {
	var target setups.StoreConfig

	c := &cobra.Command{
		Use:   "copy",
		Short: "Copy the current snapshot to another backend",
		Long:  "Reads the snapshot from the backend configured in the environment and writes it, unchanged, to the backend given by the --to-* flags.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			session, cfg, err := clienv.Open(ctx)
			if err != nil {
				return err
			}
			defer session.Close()

			if target == cfg.Store {
				return fmt.Errorf("source and target backends are identical")
			}

			docs, err := session.DB.Documents()
			if err != nil {
				return fmt.Errorf("encode state: %w", err)
			}

			dest, closeDest, err := setups.OpenSnapshotStore(ctx, target, session.Logger)
			if err != nil {
				return fmt.Errorf("open target backend: %w", err)
			}
			defer closeDest()

			if err := dest.Save(ctx, docs); err != nil {
				return fmt.Errorf("save to %s: %w", target.Backend, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "copied %d documents to %s\n", len(docs), target.Backend)
			return nil
		},
	}

	c.Flags().StringVar(&target.Backend, "to-backend", "", "target backend: file, postgres, gcs or memory")
	c.Flags().StringVar(&target.File, "to-file", "", "target snapshot file (file backend)")
	c.Flags().StringVar(&target.DatabaseURL, "to-database-url", "", "target connection string (postgres backend)")
	c.Flags().Int32Var(&target.MaxConns, "to-max-conns", 4, "target pool size (postgres backend)")
	c.Flags().StringVar(&target.Bucket, "to-bucket", "", "target bucket (gcs backend)")
	c.Flags().StringVar(&target.Prefix, "to-prefix", "coptrack", "target object prefix (gcs backend)")
	_ = c.MarkFlagRequired("to-backend")
	return c
}
