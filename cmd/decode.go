package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"
	"github.com/zkiln/radmin/kvjson"
	"github.com/zkiln/radmin/pxtr"
)

var decodeOutputDir string

// expandGlobs expands each pattern, keeping patterns with no matches so the
// caller reports them as missing files.
func expandGlobs(patterns []string) ([]string, error) {
	var paths []string
	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("failed to expand %s: %w", pattern, err)
		}
		if len(matches) == 0 {
			matches = []string{pattern}
		}
		paths = append(paths, matches...)
	}
	return paths, nil
}

var decodeCmd = &cobra.Command{
	Use:   "decode [record...]",
	Short: "Decode profile extract records to JSON",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			checkErr(cmd.Usage())
			return
		}
		ctx := context.Background()
		paths, err := expandGlobs(args)
		checkErr(err)
		if decodeOutputDir != "" {
			checkErr(os.MkdirAll(decodeOutputDir, 0755))
		}
		for _, path := range paths {
			record, err := readInput(path)
			checkErr(err)
			tree, err := pxtr.Decode(ctx, record)
			if err != nil {
				bailf("error decoding %s: %v", path, err)
			}
			out, err := kvjson.Generate(tree)
			checkErr(err)
			checkErr(writeOutput(outputPath(decodeOutputDir, path, ".json"), out))
		}
	},
}

func init() {
	rootCmd.AddCommand(decodeCmd)
	decodeCmd.Flags().StringVarP(&decodeOutputDir, "output-dir", "o", "", "Write one .json file per record to this directory")
}
