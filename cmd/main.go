package main

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

func init() {
	// Default to release mode so a missing GIN_MODE never exposes debug output
	gin.SetMode(gin.ReleaseMode)

	if mode := os.Getenv("GIN_MODE"); mode != "" {
		gin.SetMode(mode)
	}
}

// @title           clinic-scheduler
// @version         1.0
// @description     Resource availability, booking holds and surgical case scheduling.

// @BasePath  /
// @schemes http https
// @in header
func main() {
	rootCmd := &cobra.Command{
		Use:          "clinic-scheduler",
		Short:        "Clinic resource scheduling and conflict engine",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
