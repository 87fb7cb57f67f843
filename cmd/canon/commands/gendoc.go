package commands

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"

	"github.com/thoreinstein/canon/internal/errors"
	"github.com/thoreinstein/canon/internal/paths"
)

var genDocCmd = &cobra.Command{
	Use:    "gen-doc",
	Short:  "Generate Markdown or man page documentation for the CLI",
	Hidden: true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		outputDir, _ := cmd.Flags().GetString("dir")
		man, _ := cmd.Flags().GetBool("man")
		return runGenDoc(outputDir, man, cmd.OutOrStdout())
	},
}

func init() {
	genDocCmd.Flags().StringP("dir", "d", "", "Output directory for documentation")
	genDocCmd.Flags().Bool("man", false, "Generate man pages instead of Markdown")
	rootCmd.AddCommand(genDocCmd)
}

func runGenDoc(outputDir string, man bool, w io.Writer) error {
	if outputDir == "" {
		return errors.NewUserError(errors.New("output directory is required"), "pass --dir")
	}
	if err := paths.EnsureDir(outputDir, 0o755); err != nil {
		return errors.Wrap(err, "creating output directory")
	}

	if man {
		header := &doc.GenManHeader{Title: "CANON", Section: "1"}
		if err := doc.GenManTree(rootCmd, header, outputDir); err != nil {
			return errors.Wrap(err, "generating man pages")
		}
	} else if err := doc.GenMarkdownTreeCustom(rootCmd, outputDir, filePrepender, linkHandler); err != nil {
		return errors.Wrap(err, "generating markdown")
	}

	fmt.Fprintf(w, "Documentation generated in %s\n", outputDir)
	return nil
}

func filePrepender(filename string) string {
	name := filepath.Base(filename)
	base := strings.TrimSuffix(name, filepath.Ext(name))
	// canon_store_import.md -> canon store import
	title := strings.ReplaceAll(base, "_", " ")

	return fmt.Sprintf(`---
title: "%s"
description: "Reference for %s"
---
`, title, title)
}

func linkHandler(name string) string {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	return "/docs/reference/" + strings.ToLower(base) + "/"
}
