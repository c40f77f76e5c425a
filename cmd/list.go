package cmd

import (
	"context"
	"os"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"github.com/zkiln/radmin/util"
)

var listJSON bool

var listCmd = &cobra.Command{
	Use:   "list [class]",
	Short: "List the catalogued profiles of a class",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			checkErr(cmd.Usage())
			return
		}
		ctx := context.Background()
		cat, closer, err := openCatalog(ctx)
		checkErr(err)
		defer closer()
		entries, err := cat.List(ctx, args[0])
		checkErr(err)
		if listJSON {
			checkErr(json.NewEncoder(os.Stdout).Encode(entries))
			return
		}
		rows := make([][]string, 0, len(entries))
		for _, e := range entries {
			rows = append(rows, []string{e.Class, e.Profile, e.ObjectID, e.Timestamp})
		}
		util.PrintTable(os.Stdout, getTermWidth(), []string{"Class", "Profile", "Object", "Captured"}, rows)
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().StringVarP(&catalogPath, "catalog", "c", env("CATALOG", "radmin.db"), "Catalog database location")
	listCmd.Flags().BoolVarP(&listJSON, "json", "j", false, "Print entries as JSON")
}
