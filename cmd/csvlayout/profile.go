package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/JonMunkholm/csvlayout/internal/profile"
)

func newProfileCmd(opts *rootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "profile",
		Aliases: []string{"profiles"},
		Short:   "Manage saved profiles",
	}

	cmd.AddCommand(
		newProfileListCmd(opts),
		newProfileShowCmd(opts),
		newProfileImportCmd(opts),
		newProfileExportCmd(opts),
		newProfileDeleteCmd(opts),
		newProfileMatchCmd(opts),
	)
	return cmd
}

func newProfileListCmd(opts *rootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			profiles, err := opts.svc.ListProfiles(cmd.Context())
			if err != nil {
				return err
			}
			if len(profiles) == 0 {
				printNote(cmd.ErrOrStderr(), "no profiles saved")
				return nil
			}

			rows := pterm.TableData{{"NAME", "ID", "ENCODING", "UPDATED"}}
			for _, p := range profiles {
				rows = append(rows, []string{p.Name, p.ID, encodings(p), p.UpdatedAt.Format("2006-01-02 15:04")})
			}
			return printTable(cmd.OutOrStdout(), rows)
		},
	}
}

// encodings shows a profile's encodings as "in→out", "-" meaning the
// configured default.
func encodings(p profile.Profile) string {
	or := func(s string) string {
		if s == "" {
			return "-"
		}
		return s
	}
	return or(p.InputEncoding) + "→" + or(p.OutputEncoding)
}

func newProfileShowCmd(opts *rootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "show <name|id>",
		Short: "Print a profile as YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := opts.svc.FindProfile(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(p); err != nil {
				return err
			}
			return enc.Close()
		},
	}
}

func newProfileImportCmd(opts *rootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Save every profile of a JSON or YAML profile document",
		Long: `Import saves every profile in the document. A profile whose name is
already saved is overwritten and keeps its id.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			res, err := opts.svc.ImportProfiles(cmd.Context(), data, profile.FormatFor(args[0]))
			if err != nil {
				return err
			}
			printSuccess(cmd.ErrOrStderr(), fmt.Sprintf("%d created, %d updated", res.Created, res.Updated))
			return nil
		},
	}
}

func newProfileExportCmd(opts *rootOpts) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "export [file]",
		Short: "Write every saved profile as a profile document",
		Long: `Export writes to stdout unless a file is given. The format follows the
file extension; --format overrides it.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := profile.FormatJSON
			if len(args) == 1 {
				f = profile.FormatFor(args[0])
			}
			switch strings.ToLower(format) {
			case "":
			case "json":
				f = profile.FormatJSON
			case "yaml", "yml":
				f = profile.FormatYAML
			default:
				return fmt.Errorf("unknown format %q (want json or yaml)", format)
			}

			data, err := opts.svc.ExportProfiles(cmd.Context(), f)
			if err != nil {
				return err
			}

			if len(args) == 0 {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(args[0], data, 0o644); err != nil {
				return err
			}
			printSuccess(cmd.ErrOrStderr(), "profiles written to "+filepath.Clean(args[0]))
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "json or yaml")
	return cmd
}

func newProfileDeleteCmd(opts *rootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name|id>",
		Short: "Delete a saved profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := opts.svc.FindProfile(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := opts.svc.DeleteProfile(cmd.Context(), p.ID); err != nil {
				return err
			}
			printSuccess(cmd.ErrOrStderr(), fmt.Sprintf("deleted %s", p.Name))
			return nil
		},
	}
}

func newProfileMatchCmd(opts *rootOpts) *cobra.Command {
	var inputEncoding string

	cmd := &cobra.Command{
		Use:   "match <file>",
		Short: "Suggest saved profiles whose input columns appear in a CSV header",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer file.Close()

			matches, err := opts.svc.MatchFile(cmd.Context(), file, inputEncoding)
			if err != nil {
				return err
			}
			if len(matches) == 0 {
				printNote(cmd.ErrOrStderr(), "no matching profiles")
				return nil
			}

			rows := pterm.TableData{{"NAME", "SCORE", "MISSING"}}
			for _, m := range matches {
				rows = append(rows, []string{m.Profile.Name, fmt.Sprintf("%.0f%%", m.Score*100), strings.Join(m.Missing, ",")})
			}
			return printTable(cmd.OutOrStdout(), rows)
		},
	}

	cmd.Flags().StringVar(&inputEncoding, "input-encoding", "", "input encoding: utf-8 or shift_jis")
	return cmd
}
