package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/elsanchez/free-games-claimer/internal/domain"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded claims per account",
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

var accountStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))

func runList(cmd *cobra.Command, args []string) error {
	repo, err := openRepository(cfg)
	if err != nil {
		return err
	}
	defer repo.Close()

	lib, err := repo.Load(cmd.Context())
	if err != nil {
		return fmt.Errorf("load claims: %w", err)
	}

	printLibrary(os.Stdout, lib)
	return nil
}

func printLibrary(w io.Writer, lib domain.Library) {
	users := lib.Users()
	if len(users) == 0 {
		fmt.Fprintln(w, "No claims recorded yet")
		return
	}

	for _, user := range users {
		entries := lib[user].Entries()
		fmt.Fprintf(w, "%s (%d)\n", accountStyle.Render(user), len(entries))

		t := table.New().Headers("TIME", "STORE", "TITLE", "CODE")
		for _, e := range entries {
			t.Row(e.Time.Local().Format("2006-01-02 15:04"), e.Store, e.Title, e.Code)
		}
		fmt.Fprintln(w, t.Render())
	}
}
