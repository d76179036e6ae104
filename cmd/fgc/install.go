package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/elsanchez/free-games-claimer/internal/browser"
)

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Download the playwright driver and Firefox",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := browser.Install(); err != nil {
			return err
		}
		fmt.Println("✓ Browser installed")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(installCmd)
}
