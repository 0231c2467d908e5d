// Package main provides the StreamSort CLI application entry point.
// StreamSort is an interactive shell for sorting and curating a music
// collection on Spotify.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"streamsort/internal/cache"
	"streamsort/internal/extensions/projects"
	"streamsort/internal/extensions/shuffle"
	"streamsort/internal/interaction"
	"streamsort/internal/logger"
	"streamsort/internal/sentences"
	"streamsort/internal/session"
	"streamsort/internal/shell"
	"streamsort/internal/version"
	"streamsort/pkg/mobtypes"
)

var (
	logLevel    string
	logFile     string
	clientID    string
	redirectURL string
	cacheDir    string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "streamsort",
	Short: "StreamSort - interactive music collection shell",
	Long: `StreamSort is an interactive shell for working through a Spotify music
collection: search, focus, curate playlists, and keep several named
workspaces going at once.`,
	RunE: runShell, // Default behavior is to run the interactive shell
}

// shellCmd represents the shell command (explicit version of default behavior)
var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start the interactive shell",
	RunE:  runShell,
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Println(version.Get().String())
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Set log level (debug|info|warn|error) [default: warn]")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Write logs to file instead of stderr")
	rootCmd.PersistentFlags().StringVar(&clientID, "client-id", "", "Spotify application client id")
	rootCmd.PersistentFlags().StringVar(&redirectURL, "redirect-url", session.DefaultRedirectURL, "OAuth redirect url registered on the Spotify app")
	rootCmd.PersistentFlags().StringVar(&cacheDir, "cache-dir", "", "Directory for the token and library cache [default: ~/.streamsort]")

	for _, flag := range []string{"log-level", "log-file", "client-id", "redirect-url", "cache-dir"} {
		if err := viper.BindPFlag(flag, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
			fmt.Fprintf(os.Stderr, "Error binding %s flag: %v\n", flag, err)
			os.Exit(1)
		}
	}

	rootCmd.AddCommand(shellCmd)
	rootCmd.AddCommand(versionCmd)

	// Configure logger and environment before any command execution
	cobra.OnInitialize(initConfig)
}

func initConfig() {
	// A .env file is the usual home for STREAMSORT_CLIENT_ID.
	_ = godotenv.Load()

	viper.SetEnvPrefix("streamsort")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := logger.Configure(viper.GetString("log-level"), viper.GetString("log-file")); err != nil {
		fmt.Fprintf(os.Stderr, "Error configuring logger: %v\n", err)
		os.Exit(1)
	}
}

func runShell(_ *cobra.Command, _ []string) error {
	dir := viper.GetString("cache-dir")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("locate cache dir: %w", err)
		}
		dir = filepath.Join(home, ".streamsort")
	}
	store, err := cache.Open(filepath.Join(dir, "cache.db"))
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	term := interaction.Default()
	ctx := context.Background()
	connect := func() (mobtypes.Session, error) {
		return session.Connect(ctx, session.Config{
			ClientID:    viper.GetString("client-id"),
			RedirectURL: viper.GetString("redirect-url"),
			Store:       store,
			IO:          term,
		})
	}

	api, err := connect()
	if err != nil {
		return err
	}
	me, err := api.Me()
	if err != nil {
		return err
	}
	logger.Info("starting streamsort", "version", version.Version, "user", me.ID)

	reg := sentences.NewRegistry(sentences.Options{
		IO: term,
		Library: func(fetch sentences.FetchFunc) (sentences.Library, error) {
			lib, err := store.Library(fetch)
			if err != nil {
				return nil, err
			}
			return lib, nil
		},
	})
	open, _ := reg.Get("open")
	for name, sentence := range map[string]mobtypes.Sentence{
		"shuffle":  shuffle.New(open),
		"projects": projects.New(open, term),
	} {
		if err := reg.Register(name, sentence); err != nil {
			return err
		}
	}

	term.Notify(fmt.Sprintf("StreamSort v%s - signed in as %s", version.Version, me.Name))
	term.Notify("Type 'exit' to leave, 'logout' to switch accounts.")

	return shell.Run(
		mobtypes.State{API: api, Mob: me, Scopes: mobtypes.Scopes{}},
		shell.Options{
			Registry:    reg,
			Reconnect:   connect,
			HistoryFile: filepath.Join(dir, "history"),
		},
	)
}
