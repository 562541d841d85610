package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/csvlayout/internal/profile"
	"github.com/JonMunkholm/csvlayout/internal/service"
)

// sourceFlags select the rules and input options shared by convert and
// preview.
type sourceFlags struct {
	profile       string
	rulesFile     string
	inputEncoding string
}

func (f *sourceFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.profile, "profile", "p", "", "saved profile name or id")
	cmd.Flags().StringVarP(&f.rulesFile, "rules", "r", "", "profile document (JSON or YAML) to take the rules from")
	cmd.Flags().StringVar(&f.inputEncoding, "input-encoding", "", "input encoding: utf-8 or shift_jis")
}

// request builds the service request. The returned profile is the one taken
// from --rules, if any, so its file options can be applied.
func (f *sourceFlags) request(cmd *cobra.Command, opts *rootOpts, file *os.File) (service.Request, *profile.Profile, error) {
	req := service.Request{
		File:          file,
		FileName:      filepath.Base(file.Name()),
		InputEncoding: f.inputEncoding,
	}

	if f.rulesFile == "" {
		if f.profile == "" {
			return req, nil, service.ErrNoRules
		}
		p, err := opts.svc.FindProfile(cmd.Context(), f.profile)
		if err != nil {
			return req, nil, err
		}
		req.ProfileID = p.ID
		return req, p, nil
	}

	p, err := profileFromDocument(f.rulesFile, f.profile)
	if err != nil {
		return req, nil, err
	}
	req.Rules = &p.Rules
	if req.InputEncoding == "" {
		req.InputEncoding = p.InputEncoding
	}
	return req, p, nil
}

// profileFromDocument reads a profile document and picks the profile named
// name, or the only profile when name is empty.
func profileFromDocument(path, name string) (*profile.Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules: %w", err)
	}
	profiles, _, err := profile.ParseDocument(data, profile.FormatFor(path))
	if err != nil {
		return nil, err
	}

	if name == "" {
		if len(profiles) != 1 {
			return nil, fmt.Errorf("%w: %s holds %d profiles, choose one with --profile", profile.ErrInvalid, path, len(profiles))
		}
		return &profiles[0], nil
	}
	for i := range profiles {
		if profiles[i].Name == name {
			return &profiles[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %q in %s", profile.ErrNotFound, name, path)
}

func newConvertCmd(opts *rootOpts) *cobra.Command {
	var (
		src            sourceFlags
		output         string
		noHeader       bool
		outputEncoding string
	)

	cmd := &cobra.Command{
		Use:   "convert <file>",
		Short: "Apply a profile to a CSV file and write the result",
		Long: `Convert applies the rules of a saved profile (--profile) or of a profile
document (--rules) to a CSV file. The result is written next to the input as
<name>_converted.csv unless --output is given; --output - writes to stdout.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer file.Close()

			req, p, err := src.request(cmd, opts, file)
			if err != nil {
				return err
			}

			convReq := service.ConvertRequest{Request: req, OutputEncoding: outputEncoding}
			if src.rulesFile != "" {
				if convReq.OutputEncoding == "" {
					convReq.OutputEncoding = p.OutputEncoding
				}
				convReq.RemoveHeader = &p.RemoveHeader
			}
			if cmd.Flags().Changed("no-header") {
				convReq.RemoveHeader = &noHeader
			}

			res, err := opts.svc.Convert(cmd.Context(), convReq)
			if err != nil {
				return err
			}
			printWarnings(cmd.ErrOrStderr(), res.Warnings)

			if output == "-" {
				_, err := cmd.OutOrStdout().Write(res.Data)
				return err
			}
			if output == "" {
				output = filepath.Join(filepath.Dir(args[0]), res.FileName)
			}
			if err := os.WriteFile(output, res.Data, 0o644); err != nil {
				return fmt.Errorf("write output: %w", err)
			}

			printSuccess(cmd.ErrOrStderr(), fmt.Sprintf("%d rows written to %s (%s)", res.Rows, output, res.OutputEncoding))
			if res.FellBack {
				printNote(cmd.ErrOrStderr(), fmt.Sprintf("input was read as %s", res.InputEncoding))
			}
			return nil
		},
	}

	src.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file, - for stdout")
	cmd.Flags().BoolVar(&noHeader, "no-header", false, "omit the header row")
	cmd.Flags().StringVar(&outputEncoding, "output-encoding", "", "output encoding: utf-8 or shift_jis")
	return cmd
}

func newPreviewCmd(opts *rootOpts) *cobra.Command {
	var (
		src  sourceFlags
		rows int
	)

	cmd := &cobra.Command{
		Use:   "preview <file>",
		Short: "Show the first rows of the converted file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer file.Close()

			req, _, err := src.request(cmd, opts, file)
			if err != nil {
				return err
			}

			res, err := opts.svc.Preview(cmd.Context(), service.PreviewRequest{Request: req, Rows: rows})
			if err != nil {
				return err
			}

			printWarnings(cmd.ErrOrStderr(), res.Warnings)
			if err := printPreview(cmd.OutOrStdout(), res.Preview); err != nil {
				return err
			}
			if res.FellBack {
				printNote(cmd.ErrOrStderr(), fmt.Sprintf("input was read as %s", res.InputEncoding))
			}
			return nil
		},
	}

	src.register(cmd)
	cmd.Flags().IntVarP(&rows, "rows", "n", 0, "number of rows to show (default PREVIEW_ROWS)")
	return cmd
}
