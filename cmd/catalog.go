package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/abhisek/studymate/internal/curriculum"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Print the curriculum catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		c, err := loadCatalog(cfg)
		if err != nil {
			return err
		}
		printCatalog(cmd.OutOrStdout(), c)
		return nil
	},
}

func printCatalog(w io.Writer, c *curriculum.Catalog) {
	fmt.Fprintf(w, "catalog %s\n", c.Version)
	for _, cur := range c.Curricula {
		fmt.Fprintf(w, "%s (%s)\n", cur.Name, cur.ID)
		for _, sub := range cur.Subjects {
			fmt.Fprintf(w, "  %s (%s)\n", sub.Name, sub.ID)
			for _, u := range sub.Units {
				fmt.Fprintf(w, "    %s (%s)\n", u.Name, u.ID)
				for _, st := range u.Standards {
					fmt.Fprintf(w, "      %s %s\n", st.Code, st.Description)
				}
			}
		}
	}
}
