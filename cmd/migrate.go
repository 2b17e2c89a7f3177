package main

import (
	"fmt"
	"net/url"
	"os"

	"clinic-scheduler/internal/pkg/config"

	"ariga.io/atlas-go-sdk/atlasexec"
	"github.com/spf13/cobra"
)

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}
	cmd.PersistentFlags().String("dir", "./migrations", "Path to migrations directory")
	cmd.PersistentFlags().String("atlas", "atlas", "Path to the atlas binary")

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, dbURL, cleanup, err := newAtlasClient(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			res, err := client.MigrateApply(cmd.Context(), &atlasexec.MigrateApplyParams{URL: dbURL})
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			fmt.Printf("Applied %d migration(s), now at version %s.\n", len(res.Applied), res.Target)
			return nil
		},
	}

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, dbURL, cleanup, err := newAtlasClient(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			res, err := client.MigrateStatus(cmd.Context(), &atlasexec.MigrateStatusParams{URL: dbURL})
			if err != nil {
				return fmt.Errorf("status failed: %w", err)
			}

			fmt.Printf("Status: %s\nCurrent: %s\nNext: %s\nPending: %d\n",
				res.Status, res.Current, res.Next, len(res.Pending))
			return nil
		},
	}

	cmd.AddCommand(upCmd, statusCmd)
	return cmd
}

func newAtlasClient(cmd *cobra.Command) (*atlasexec.Client, string, func(), error) {
	dir, _ := cmd.Flags().GetString("dir")
	bin, _ := cmd.Flags().GetString("atlas")

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, "", nil, err
	}

	wd, err := atlasexec.NewWorkingDir(atlasexec.WithMigrations(os.DirFS(dir)))
	if err != nil {
		return nil, "", nil, fmt.Errorf("failed to prepare migrations dir: %w", err)
	}

	client, err := atlasexec.NewClient(wd.Path(), bin)
	if err != nil {
		wd.Close()
		return nil, "", nil, fmt.Errorf("failed to create atlas client: %w", err)
	}

	return client, atlasURL(cfg.DB), func() { wd.Close() }, nil
}

func atlasURL(cfg config.DBConfig) string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.User, cfg.Password),
		Host:     cfg.Host + ":" + cfg.Port,
		Path:     "/" + cfg.DBName,
		RawQuery: "sslmode=" + url.QueryEscape(cfg.SSLMode),
	}
	return u.String()
}

