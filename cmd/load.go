package cmd

import (
	"context"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/zkiln/radmin/util"
	"github.com/zkiln/radmin/util/log"
)

type classTotal struct {
	profiles int
	bytes    int
}

var loadCmd = &cobra.Command{
	Use:   "load [record...]",
	Short: "Capture profile extract records into the store and catalog",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			checkErr(cmd.Usage())
			return
		}
		ctx := context.Background()
		paths, err := expandGlobs(args)
		checkErr(err)
		replay, closer := openReplay(ctx)
		defer closer()

		totals := map[string]*classTotal{}
		for _, path := range paths {
			record, err := readInput(path)
			checkErr(err)
			entry, err := replay.Capture(ctx, uuid.NewString(), record)
			if err != nil {
				closer()
				bailf("error loading %s: %v", path, err)
			}
			log.Debugw(ctx, "loaded", "path", path, "profile", entry.Profile)
			total, ok := totals[entry.Class]
			if !ok {
				total = &classTotal{}
				totals[entry.Class] = total
			}
			total.profiles++
			total.bytes += len(record)
		}
		classes := make([]string, 0, len(totals))
		for class := range totals {
			classes = append(classes, class)
		}
		slices.Sort(classes)
		for _, class := range classes {
			total := totals[class]
			fmt.Printf("%s: %s, %s\n", class, util.Plural(total.profiles, "profile"), util.HumanBytes(uint64(total.bytes)))
		}
	},
}

func init() {
	rootCmd.AddCommand(loadCmd)
	addStoreFlags(loadCmd)
}
