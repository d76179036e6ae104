package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/elsanchez/free-games-claimer/internal/browser"
	"github.com/elsanchez/free-games-claimer/internal/cookies"
)

var (
	cookiesFile    string
	cookiesBrowser string
	cookiesDomain  string
)

var cookiesCmd = &cobra.Command{
	Use:   "cookies",
	Short: "Manage the login cookies of the browser profile",
}

var cookiesImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Seed the browser profile with an existing login",
	Long: `Copy the storefront cookies into the persistent browser profile so the
next claim starts signed in.

Example:
  fgc cookies import --browser firefox
  fgc cookies import --file cookies.txt`,
	RunE: runCookiesImport,
}

func init() {
	cookiesImportCmd.Flags().StringVar(&cookiesFile, "file", "", "Netscape cookies.txt file")
	cookiesImportCmd.Flags().StringVar(&cookiesBrowser, "browser", "", "Desktop browser to read cookies from ("+strings.Join(cookies.NewBrowserExtractor().SupportedBrowsers(), ", ")+")")
	cookiesImportCmd.Flags().StringVar(&cookiesDomain, "domain", cookies.DefaultDomain, "Cookie domain")
	cookiesImportCmd.MarkFlagsOneRequired("file", "browser")
	cookiesImportCmd.MarkFlagsMutuallyExclusive("file", "browser")

	cookiesCmd.AddCommand(cookiesImportCmd)
	rootCmd.AddCommand(cookiesCmd)
}

func runCookiesImport(cmd *cobra.Command, args []string) error {
	session, err := browser.Launch(browserOptions(cfg))
	if err != nil {
		return err
	}
	defer func() {
		if err := session.Close(); err != nil {
			slog.Warn("failed to close browser", "error", err)
		}
	}()

	res, err := cookies.NewCookieImporter().Import(cmd.Context(), session, cookies.ImportOptions{
		FilePath: cookiesFile,
		Browser:  cookiesBrowser,
		Domain:   cookiesDomain,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Imported %d cookies (%s)\n", res.Count, res.Validation.Message)
	return nil
}
