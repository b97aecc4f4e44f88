package cmd

import (
	"activity-marketplace/cmd/server"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "启动 HTTP 服务",
	Run: func(cmd *cobra.Command, args []string) {
		server.Init()
		server.Run()
	},
}
