package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/csvlayout/internal/config"
	"github.com/JonMunkholm/csvlayout/internal/logging"
	"github.com/JonMunkholm/csvlayout/internal/profile"
	"github.com/JonMunkholm/csvlayout/internal/service"
)

// rootOpts is shared by every subcommand. It is filled in by the root
// command's PersistentPreRunE.
type rootOpts struct {
	debug       bool
	profilePath string

	cfg        *config.Config
	svc        *service.Service
	closeStore func()
}

func newRootCmd() *cobra.Command {
	opts := &rootOpts{}

	cmd := &cobra.Command{
		Use:   "csvlayout",
		Short: "Reshape CSV files with saved column rules",
		Long: `csvlayout applies a profile of column rules (reorder, merge, extract,
remove, add, replace and prefecture handling) to a CSV file.

Settings come from the environment or a .env file, the same as the web
server: PROFILE_STORE, PROFILE_PATH, INPUT_ENCODING, OUTPUT_ENCODING,
LINE_ENDING and so on.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.closeStore != nil {
				opts.closeStore()
			}
		},
	}

	cmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "log every pipeline stage to stderr")
	cmd.PersistentFlags().StringVar(&opts.profilePath, "profiles", "", "profile document to use instead of PROFILE_PATH")

	cmd.AddCommand(
		newConvertCmd(opts),
		newPreviewCmd(opts),
		newProfileCmd(opts),
	)
	return cmd
}

func (o *rootOpts) setup(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if o.profilePath != "" {
		cfg.Profiles.Store = config.StoreFile
		cfg.Profiles.Path = o.profilePath
	}

	// Warnings are printed for the user, so logs stay quiet unless asked
	level := "error"
	if o.debug {
		level = "debug"
	}
	logger := logging.New(cmd.ErrOrStderr(), level, cfg.Logging.Format)
	slog.SetDefault(logger)

	ctx := logging.NewContext(cmd.Context(), logger)
	cmd.SetContext(ctx)

	store, closeStore, err := profile.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open profile store: %w", err)
	}

	o.cfg = cfg
	o.svc = service.New(store, cfg.Convert)
	o.closeStore = closeStore
	return nil
}
