package cmd

import (
	"log"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/amirkhaki/conductor/internal/handler"
	"github.com/amirkhaki/conductor/internal/session"
	"github.com/amirkhaki/conductor/internal/transport/wsserver"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "serve the scheduler over a JSON-over-WebSocket listener",
	Long:  ``,
	RunE: func(cmd *cobra.Command, args []string) error {
		registry := session.New(nil)
		h := handler.New(registry)
		server := wsserver.New(h, nil)

		log.Printf("conductor: listening on %s", serveAddr)
		return http.ListenAndServe(serveAddr, server)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVarP(&serveAddr, "addr", "a", ":7777",
		"address to listen on")
}
