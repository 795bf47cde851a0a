package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func compileCmd(flags *globalFlags) *cobra.Command {
	var (
		dataFile string
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "compile [file...]",
		Short: "Compile templates and print the VNode tree",
		Long: `Compile templates and print the lowered VNode tree.

Without arguments the templates listed in vlite.json are compiled.

Examples:
  vlite compile views/card.html --data views/data.yaml
  vlite compile --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProject(flags.configDir, dataFile)
			if err != nil {
				return err
			}
			files, err := p.templates(args)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, file := range files {
				node, err := p.compile(file)
				if err != nil {
					return err
				}
				tree := describe(node)
				if asJSON {
					enc := json.NewEncoder(out)
					enc.SetIndent("", "  ")
					if err := enc.Encode(tree); err != nil {
						return err
					}
					continue
				}
				if len(files) > 1 {
					fmt.Fprintf(out, "# %s\n", file)
				}
				writeTree(out, tree, 0)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&dataFile, "data", "d", "", "YAML or JSON file with slot values")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the tree as JSON")

	return cmd
}
