package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
)

var (
	port     int
	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Start the web server",
		Long: `Start the HTTP API server.

The server exposes the conversational pipeline and catalog lookups as
JSON endpoints, including per-session question answering, party
management, artwork, and final report generation.`,
		Run: func(cmd *cobra.Command, args []string) {
			runServe()
		},
	}
)

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntVarP(&port, "port", "p", 3000, "Port to run the server on")
}

func runServe() {
	fmt.Printf("Starting Pokelab API server...\n")
	fmt.Printf("Data directory: %s\n", dataDir)
	fmt.Printf("Port: %d\n\n", port)

	if err := StartServer(port, dataDir); err != nil {
		log.Fatalf("Server failed: %v\n", err)
	}
}
