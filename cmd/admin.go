package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/zkiln/radmin/pxtr"
	"github.com/zkiln/radmin/radmin"
	"github.com/zkiln/radmin/util/log"
)

var (
	adminOutput   string
	adminStatus   bool
	adminBaseOnly bool
)

// statusDocument is written to standard error by admin --status.
type statusDocument struct {
	Function string        `json:"function,omitempty"`
	Status   radmin.Status `json:"status"`
	Error    string        `json:"error,omitempty"`
}

var adminCmd = &cobra.Command{
	Use:   "admin [request.json]",
	Short: "Run a JSON request against the captured records",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			checkErr(cmd.Usage())
			return
		}
		ctx := log.AddTags(context.Background(), "request", uuid.NewString())
		request, err := readInput(args[0])
		checkErr(err)
		replay, closer := openReplay(ctx)
		defer closer()

		var opts []radmin.AdminOption
		if adminBaseOnly {
			opts = append(opts, radmin.WithExtractFlags(pxtr.FlagBaseSegmentOnly))
		}
		out, err := radmin.NewAdmin(replay, opts...).Run(ctx, request)
		if adminStatus {
			writeStatus(err)
		}
		if err != nil {
			closer()
			bailf("error: %v", err)
		}
		checkErr(writeOutput(adminOutput, out))
	},
}

func writeStatus(err error) {
	doc := statusDocument{}
	var serviceErr radmin.ServiceError
	switch {
	case errors.As(err, &serviceErr):
		doc.Function = serviceErr.Code.String()
		doc.Status = serviceErr.Status
		doc.Error = err.Error()
	case err != nil:
		doc.Error = err.Error()
	}
	data, merr := json.MarshalIndent(doc, "", "  ")
	checkErr(merr)
	fmt.Fprintln(os.Stderr, string(data))
}

func init() {
	rootCmd.AddCommand(adminCmd)
	addStoreFlags(adminCmd)
	adminCmd.Flags().StringVarP(&adminOutput, "output", "o", "", "Result file (default standard output)")
	adminCmd.Flags().BoolVarP(&adminStatus, "status", "s", false, "Write the completion status to standard error")
	adminCmd.Flags().BoolVarP(&adminBaseOnly, "base-only", "b", false, "Extract the base segment only")
}
