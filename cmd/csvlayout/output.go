package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/pterm/pterm"

	"github.com/JonMunkholm/csvlayout/internal/core"
	"github.com/JonMunkholm/csvlayout/internal/service"
)

var (
	errorColor   = color.New(color.FgRed, color.Bold)
	warnColor    = color.New(color.FgYellow)
	successColor = color.New(color.FgGreen)
	noteColor    = color.New(color.Faint)
)

// printError writes err with its support code. Errors without a specific
// message are shown as they are.
func printError(w io.Writer, err error) {
	if !service.IsUserFacing(err) {
		fmt.Fprintf(w, "%s %v\n", errorColor.Sprint("error:"), err)
		return
	}
	fmt.Fprintf(w, "%s %s\n", errorColor.Sprint("error:"), service.FormatUserError(err))
	fmt.Fprintln(w, noteColor.Sprintf("  %v", err))
}

func printWarnings(w io.Writer, warnings []core.Warning) {
	for _, warn := range warnings {
		fmt.Fprintln(w, warnColor.Sprint("warning: "+warn.String()))
	}
}

func printSuccess(w io.Writer, msg string) {
	fmt.Fprintln(w, successColor.Sprint(msg))
}

func printNote(w io.Writer, msg string) {
	fmt.Fprintln(w, noteColor.Sprint(msg))
}

// printTable writes rows as an aligned table with the first row as header.
// Widths are measured in terminal cells, so full-width text lines up.
func printTable(w io.Writer, rows pterm.TableData) error {
	out, err := pterm.DefaultTable.WithHasHeader().WithData(rows).Srender()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, strings.TrimRight(out, "\n"))
	return err
}

// printPreview writes the preview as a table. A truncated preview ends with
// an ellipsis row and the total row count.
func printPreview(w io.Writer, p core.Preview) error {
	if len(p.Headers) == 0 {
		fmt.Fprintln(w, "出力する列がありません")
		return nil
	}

	rows := pterm.TableData{p.Headers}
	rows = append(rows, p.Rows...)
	if p.Truncated {
		dots := make([]string, len(p.Headers))
		for i := range dots {
			dots[i] = "..."
		}
		rows = append(rows, dots)
	}
	if err := printTable(w, rows); err != nil {
		return err
	}

	fmt.Fprintln(w, noteColor.Sprintf("%d of %d rows", len(p.Rows), p.TotalRows))
	return nil
}
