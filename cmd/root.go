package cmd

import (
	"fmt"
	"os"

	"activity-marketplace/config"

	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:           "marketplace",
	Short:         "亲子活动市场后端",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.OnInitialize(loadConfig)
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "配置文件路径，默认查找 ./config.yaml")

	rootCmd.AddCommand(serveCmd, migrateCmd, grantAdminCmd, activitiesCmd)
}

func loadConfig() {
	if cfgFile != "" {
		config.SetFile(cfgFile)
	}
	config.Init()
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
