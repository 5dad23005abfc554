package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mathrush/mathrush/internal/server"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve games over websockets",
	Long: `Start an HTTP server where every websocket connection on /ws plays its
own game. Clients send {"type":"answer","value":N} or {"type":"restart"}
and receive {"type":"state","payload":{...}} after every change.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", ":8080", "Listen address")
}

func runServe(cmd *cobra.Command, args []string) error {
	addr, _ := cmd.Flags().GetString("addr")
	cfg, err := gameConfig(cmd)
	if err != nil {
		return err
	}
	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(cfg, server.WithEventRepo(st.EventRepo()))
	fmt.Fprintf(os.Stderr, "Math Rush serving on %s (websocket at /ws)\n", addr)
	return srv.ListenAndServe(ctx, addr)
}
