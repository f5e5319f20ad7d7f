package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/algorithmx/stratum/pkg/recipe"
)

var validateCmd = &cobra.Command{
	Use:   "validate <recipe.toml>",
	Short: "Check a recipe without building anything",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := recipe.Load(args[0])
		if err != nil {
			return err
		}
		errs := r.Validate()
		if len(errs) == 0 {
			fmt.Printf("recipe %s: %d layers, ok\n", r.Name, len(r.Layers))
			return nil
		}
		for _, e := range errs {
			fmt.Println(e.Error())
		}
		return fmt.Errorf("recipe %q has %d problem(s)", r.Name, len(errs))
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
