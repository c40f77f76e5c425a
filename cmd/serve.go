package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/zkiln/radmin/radmin"
	"github.com/zkiln/radmin/routes"
	"github.com/zkiln/radmin/util"
	"github.com/zkiln/radmin/util/log"
)

var (
	servePort           int
	serveAllowedOrigins []string
	serveSharedKey      string
	serveCacheSizeMB    int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve administration requests and the replay catalog over HTTP",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		replay, closer := openReplay(ctx, radmin.WithRecordCache(int64(serveCacheSizeMB)*1024*1024))
		defer closer()
		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", servePort),
			Handler:           routes.MakeRoutes(replay, serveAllowedOrigins, serveSharedKey),
			ReadHeaderTimeout: 5 * time.Second,
		}

		stop := make(chan os.Signal, 1)
		signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
		startErr := make(chan error, 1)
		go func() {
			log.Infow(ctx, "Starting server", "port", servePort, "catalog", catalogPath,
				"cache", util.HumanBytes(uint64(serveCacheSizeMB)*1024*1024))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				startErr <- err
			}
		}()

		select {
		case err := <-startErr:
			closer()
			bailf("failed to start server: %s", err)
		case sig := <-stop:
			log.Infof(ctx, "Received %s, shutting down", sig)
		}
		shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Errorf(ctx, "failed to shut down server: %s", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	addStoreFlags(serveCmd)
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 8089, "Port to listen on")
	serveCmd.Flags().StringSliceVarP(&serveAllowedOrigins, "allowed-origins", "o", []string{}, "Allowed origins")
	serveCmd.Flags().IntVarP(&serveCacheSizeMB, "cache-size", "m", 64, "Record cache size in megabytes")
	serveCmd.Flags().StringVar(&serveSharedKey, "shared-key", env("SHARED_KEY", ""), "Shared authentication key")
}
