package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/zkiln/radmin/kv"
	"github.com/zkiln/radmin/kvjson"
	"github.com/zkiln/radmin/pxtr"
	"github.com/zkiln/radmin/transcode"
)

var (
	inspectJSON bool
	inspectDump bool
)

var colors = []*color.Color{
	color.New(color.FgRed),
	color.New(color.FgBlue),
	color.New(color.FgYellow),
	color.New(color.FgCyan),
	color.New(color.FgGreen),
	color.New(color.FgMagenta),
	color.New(color.FgWhite),
}

func getColor(depth int) *color.Color {
	return colors[depth%len(colors)]
}

func printTree(tree *kv.Tree) {
	for n := tree.Head(); n != nil; n = n.Next() {
		space := strings.Repeat("  ", n.Depth-1)
		c := getColor(n.Depth)
		if n.IsEndMarker() {
			c.Printf("%send\n", space)
			continue
		}
		texts := make([]string, 0, len(n.Values))
		for _, v := range n.Values {
			texts = append(texts, fmt.Sprintf("%s(%s)", v.Text, v.Kind))
		}
		c.Printf("%s%s [%s] %s\n", space, n.Key, n.Shape, strings.Join(texts, ", "))
	}
}

var inspectCmd = &cobra.Command{
	Use:   "inspect [file]",
	Short: "Print the node structure of a record or JSON document",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			checkErr(cmd.Usage())
			return
		}
		ctx := context.Background()
		data, err := readInput(args[0])
		checkErr(err)
		if inspectDump && !inspectJSON {
			checkErr(pxtr.Dump(os.Stdout, data, transcode.IBM037))
			fmt.Println()
		}
		var tree *kv.Tree
		if inspectJSON {
			tree, err = kvjson.Parse(ctx, data)
		} else {
			tree, err = pxtr.Decode(ctx, data)
		}
		checkErr(err)
		printTree(tree)
		fmt.Printf("%d nodes, depth %d, about %d bytes as JSON\n", tree.Len(), maxDepth(tree), tree.Size())
	},
}

func maxDepth(tree *kv.Tree) int {
	depth := 0
	checkErr(tree.Walk(func(n *kv.Node) error {
		depth = max(depth, n.Depth)
		return nil
	}))
	return depth
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().BoolVarP(&inspectJSON, "json", "j", false, "The input is a JSON document")
	inspectCmd.Flags().BoolVarP(&inspectDump, "dump", "x", false, "Print a hex dump of the record first")
}
