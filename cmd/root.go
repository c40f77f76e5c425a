package cmd

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/zkiln/radmin/util/log"
)

var debug bool

var rootCmd = &cobra.Command{
	Use:   "radmin",
	Short: "Run directory-service administration requests and decode their records",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log.Setup(os.Stderr, debug)
	},
}

// Execute runs the root command.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func bailf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

func checkErr(err error) {
	if err != nil {
		bailf("error: %v", err)
	}
}

// env returns the value of a RADMIN_ environment variable, or def if it is
// unset.
func env(name, def string) string {
	if v, ok := os.LookupEnv("RADMIN_" + name); ok {
		return v
	}
	return def
}

func envBool(name string) bool {
	b, _ := strconv.ParseBool(env(name, "false"))
	return b
}

// readInput reads a file, or standard input when path is "-".
func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

// writeOutput writes data to a file, or standard output when path is "" or
// "-".
func writeOutput(path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func getTermWidth() int {
	cmd := exec.Command("stty", "size")
	cmd.Stdin = os.Stdin
	out, err := cmd.Output()
	if err != nil {
		return 80
	}
	var rows, cols int
	if _, err = fmt.Sscanf(string(out), "%d %d", &rows, &cols); err != nil {
		return 80
	}
	return cols
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "", envBool("DEBUG"), "Enable debug logging")
}
