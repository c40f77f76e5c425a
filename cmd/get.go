package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/zkiln/radmin/kv"
	"github.com/zkiln/radmin/kvjson"
	"github.com/zkiln/radmin/kvpath"
	"github.com/zkiln/radmin/pxtr"
)

var (
	getRecord bool
	getValues bool
)

var getCmd = &cobra.Command{
	Use:   "get [file] [path]",
	Short: "Select members of a JSON document or record by key path",
	Example: `  radmin get result.json base.owner
  radmin get --record bob1.bin 'base.connects[2].group'`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 2 {
			checkErr(cmd.Usage())
			return
		}
		ctx := context.Background()
		query, err := kvpath.Compile(args[1])
		checkErr(err)
		data, err := readInput(args[0])
		checkErr(err)
		var tree *kv.Tree
		if getRecord {
			tree, err = pxtr.Decode(ctx, data)
		} else {
			tree, err = kvjson.Parse(ctx, data)
		}
		checkErr(err)
		nodes := query.Eval(tree)
		if len(nodes) == 0 {
			bailf("%s: no match", query)
		}
		if getValues {
			for _, n := range nodes {
				for _, v := range n.Values {
					text, err := v.Unescaped()
					checkErr(err)
					fmt.Println(text)
				}
			}
			return
		}
		selected, err := kvpath.Extract(nodes)
		checkErr(err)
		out, err := kvjson.Generate(selected)
		checkErr(err)
		checkErr(writeOutput("", out))
	},
}

func init() {
	rootCmd.AddCommand(getCmd)
	getCmd.Flags().BoolVarP(&getRecord, "record", "r", false, "The input is a profile extract record")
	getCmd.Flags().BoolVarP(&getValues, "values", "v", false, "Print values one per line instead of JSON")
}
