package cmd

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/zkiln/radmin/kvjson"
)

var fmtWrite bool

// outputPath names the file written for input in dir, or "" for standard
// output when dir is empty.
func outputPath(dir, input, ext string) string {
	if dir == "" {
		return ""
	}
	base := filepath.Base(input)
	return filepath.Join(dir, strings.TrimSuffix(base, filepath.Ext(base))+ext)
}

var fmtCmd = &cobra.Command{
	Use:   "fmt [file.json]",
	Short: "Reformat a JSON request or result",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			checkErr(cmd.Usage())
			return
		}
		data, err := readInput(args[0])
		checkErr(err)
		tree, err := kvjson.Parse(context.Background(), data)
		checkErr(err)
		out, err := kvjson.Generate(tree)
		checkErr(err)
		target := ""
		if fmtWrite && args[0] != "-" {
			target = args[0]
		}
		checkErr(writeOutput(target, out))
	},
}

func init() {
	rootCmd.AddCommand(fmtCmd)
	fmtCmd.Flags().BoolVarP(&fmtWrite, "write", "w", false, "Write the result back to the file")
}
