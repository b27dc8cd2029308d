package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bookworm-dev/epublocate"
)

var version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "epublocate",
		Short: "Locate text inside an ePub publication",
		Long: `epublocate finds the first occurrence of a literal text query inside an
ePub archive and reports its structural address: the spine document that
contains it, that document's position in the reading order, the ancestor
element path, a sibling-index path, and the character offsets of the match.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(locateCmd())
	rootCmd.AddCommand(infoCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func locateCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "locate <archive> <query>",
		Short: "Find the first occurrence of a query and print its address",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			archive, query := args[0], args[1]

			m, found, err := epublocate.Locate(archive, query)
			if err != nil {
				return err
			}
			if !found {
				if asJSON {
					fmt.Println(`{"found": false}`)
					return nil
				}
				fmt.Println("Query not found in the spine.")
				return nil
			}

			if asJSON {
				return printJSON(struct {
					Found bool `json:"found"`
					*epublocate.Match
				}{true, m})
			}

			fmt.Printf("Matching file: %s\n", m.MatchedFile)
			fmt.Printf("Spine index: %d/%d\n", m.SpineIndex, m.SpineTotal)
			fmt.Printf("File index: %s\n", m.IndexPathString())
			fmt.Printf("Element path: %s\n", m.ElementPathString())
			fmt.Printf("Match start: %d\n", m.MatchStart)
			fmt.Printf("Match end: %d\n", m.MatchEnd)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "emit the address as JSON")
	return cmd
}

func infoCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "info <archive>",
		Short: "Print metadata, spine listing and spine position",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			book, err := epublocate.Open(args[0])
			if err != nil {
				return err
			}
			defer book.Close()

			md := book.Metadata()
			spine := book.Spine()
			pos := book.SpinePosition()

			if asJSON {
				return printJSON(struct {
					Metadata      epublocate.Metadata      `json:"metadata"`
					Spine         []string                 `json:"spine"`
					SpinePosition epublocate.SpinePosition `json:"spine_position"`
					Warnings      []string                 `json:"warnings,omitempty"`
				}{md, spine, pos, book.Warnings()})
			}

			if len(md.Titles) > 0 {
				fmt.Printf("Title: %s\n", md.Titles[0])
			}
			for _, a := range md.Authors {
				fmt.Printf("Author: %s\n", a.Name)
			}
			if len(md.Language) > 0 {
				fmt.Printf("Language: %s\n", strings.Join(md.Language, ", "))
			}
			fmt.Printf("Version: %s\n", md.Version)
			fmt.Printf("Spine XML position: %d/%d\n", pos.Ordinal, pos.Total)
			fmt.Printf("Spine (%d items):\n", len(spine))
			for i, id := range spine {
				fmt.Printf("  %d. %s\n", i+1, id)
			}
			for _, w := range book.Warnings() {
				fmt.Fprintf(os.Stderr, "warning: %s\n", w)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "emit the report as JSON")
	return cmd
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
