package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"

	"github.com/eringen/portfolio"
	"github.com/eringen/portfolio/content"
	"github.com/eringen/portfolio/scaffold"
	"github.com/eringen/portfolio/section"
)

var (
	contentDir string

	rootCmd = &cobra.Command{
		Use:           "portfolio",
		Short:         "A server-rendered personal portfolio built with Go, Echo, and templ",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Serve the site (configured by environment variables and .env)",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}

	checkCmd = &cobra.Command{
		Use:   "check",
		Short: "Parse the content directory and report files that would be skipped",
		Args:  cobra.NoArgs,
		RunE:  runCheck,
	}

	initCmd = &cobra.Command{
		Use:     "init <dir>",
		Short:   "Create a starter content directory and .env.example",
		Example: "  portfolio init my-site",
		Args:    cobra.ExactArgs(1),
		RunE:    runInit,
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the portfolio version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "portfolio %s\n", version)
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&contentDir, "content", "", "content directory (default $CONTENT_DIR or \"content\")")
	rootCmd.AddCommand(serveCmd, checkCmd, initCmd, versionCmd)
}

func contentDirOrEnv() string {
	if contentDir != "" {
		return contentDir
	}
	return portfolio.EnvOr("CONTENT_DIR", "content")
}

// configFromEnv reads the site configuration from the environment.
func configFromEnv() portfolio.SiteConfig {
	return portfolio.SiteConfig{
		Name:           portfolio.EnvOr("SITE_NAME", "Portfolio"),
		URL:            portfolio.EnvOr("SITE_URL", "http://localhost:3000"),
		Description:    os.Getenv("SITE_DESCRIPTION"),
		Author:         os.Getenv("SITE_AUTHOR"),
		Email:          os.Getenv("SITE_EMAIL"),
		Addr:           portfolio.EnvOr("ADDR", ":3000"),
		ContentDir:     contentDirOrEnv(),
		DatabasePath:   os.Getenv("DATABASE_PATH"),
		WatchContent:   portfolio.EnvBool("WATCH_CONTENT", false),
		ContactEnabled: portfolio.EnvBool("CONTACT_ENABLED", false),
		ContactTo:      os.Getenv("CONTACT_TO"),
		SMTP: portfolio.SMTPConfig{
			Host:     os.Getenv("SMTP_HOST"),
			Port:     os.Getenv("SMTP_PORT"),
			User:     os.Getenv("SMTP_USER"),
			Password: os.Getenv("SMTP_PASS"),
		},
		SessionSecret:  os.Getenv("SESSION_SECRET"),
		CookieSecure:   portfolio.EnvBool("COOKIE_SECURE", false),
		SuppressWindow: suppressWindowFromEnv(),
		PageTTL:        portfolio.EnvDuration("PAGE_TTL", 30*time.Minute),
		MaxPages:       portfolio.EnvInt("MAX_PAGES", section.DefaultMaxPages),
	}
}

// suppressWindowFromEnv reads SUPPRESS_WINDOW. "0" turns suppression off.
func suppressWindowFromEnv() time.Duration {
	d := portfolio.EnvDuration("SUPPRESS_WINDOW", section.DefaultSuppressWindow)
	if d <= 0 {
		return section.NoSuppression
	}
	return d
}

func runServe(cmd *cobra.Command, args []string) error {
	app := portfolio.New(configFromEnv(),
		portfolio.WithStaticDir(portfolio.EnvOr("STATIC_DIR", "public")),
	)
	defer app.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return app.Start(ctx)
}

func runCheck(cmd *cobra.Command, args []string) error {
	src := content.NewSource(contentDirOrEnv())
	lib, err := src.Load()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s: %d blogs, %d projects\n", src.Dir(), len(lib.Blogs), len(lib.Projects))
	for _, p := range lib.Problems {
		fmt.Fprintf(out, "  skipped: %v\n", p)
	}
	if n := len(lib.Problems); n > 0 {
		return fmt.Errorf("%d content file(s) failed to parse", n)
	}
	return nil
}

func runInit(cmd *cobra.Command, args []string) error {
	dir := args[0]
	created, err := scaffold.Write(dir, scaffold.NewData(dir))
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, p := range created {
		fmt.Fprintf(out, "  created %s\n", p)
	}
	fmt.Fprintf(out, `
Done! Next steps:

  cd %s
  cp .env.example .env
  portfolio serve
`, dir)
	return nil
}
