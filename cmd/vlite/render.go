package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/vlite/internal/errors"
)

func renderCmd(flags *globalFlags) *cobra.Command {
	var (
		dataFile string
		outFile  string
		key      string
	)

	cmd := &cobra.Command{
		Use:   "render [file...]",
		Short: "Render templates into an in-memory DOM and print the HTML",
		Long: `Render templates into an in-memory DOM and print the HTML.

--snapshot stores the rendered tree in the configured snapshot store
(snapshot.dir or snapshot.s3 in vlite.json) and needs exactly one template.

Examples:
  vlite render views/card.html --data views/data.yaml
  vlite render views/card.html --out card.html
  vlite render views/card.html --snapshot card-v1`,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProject(flags.configDir, dataFile)
			if err != nil {
				return err
			}
			files, err := p.templates(args)
			if err != nil {
				return err
			}
			if (key != "" || outFile != "") && len(files) != 1 {
				return errors.New(errors.CodeInvalidConfig).
					WithDetail("--snapshot and --out need exactly one template, got %d", len(files))
			}

			out := cmd.OutOrStdout()
			for _, file := range files {
				rt, container, err := p.mount(file)
				if err != nil {
					return err
				}
				html := container.InnerHTML()

				if key != "" {
					snap, err := p.saveSnapshot(cmd.Context(), rt, key)
					if err != nil {
						return err
					}
					success(cmd, "Saved snapshot %s (%d components)", snap.Key, snap.Components)
				}
				if err := rt.Unmount(); err != nil {
					return err
				}

				if outFile != "" {
					if err := os.WriteFile(outFile, []byte(html+"\n"), 0644); err != nil {
						return err
					}
					success(cmd, "Wrote %s", outFile)
					continue
				}
				if len(files) > 1 {
					fmt.Fprintf(out, "<!-- %s -->\n", file)
				}
				fmt.Fprintln(out, html)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&dataFile, "data", "d", "", "YAML or JSON file with slot values")
	cmd.Flags().StringVarP(&outFile, "out", "o", "", "Write the HTML to a file")
	cmd.Flags().StringVar(&key, "snapshot", "", "Store the rendered tree under this snapshot key")

	return cmd
}
