package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Iron-Ham/phonebook/internal/config"
	"github.com/Iron-Ham/phonebook/internal/errors"
	"github.com/Iron-Ham/phonebook/internal/logging"
	"github.com/Iron-Ham/phonebook/internal/phonebook"
	"github.com/Iron-Ham/phonebook/internal/storage"
)

var rootCmd = &cobra.Command{
	Use:   "phonebook",
	Short: "Concurrent name/phone record store",
	Long: `Phonebook keeps name/phone records in a plain text file, one
"name - phone" record per line, and serialises every access through a
writer-preferring reader-writer lock.

Lookups take a shared hold; inserts and removals take an exclusive hold
and rewrite the whole file.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// lockTimeout bounds how long a command waits for the store lock.
var lockTimeout time.Duration

// Execute runs the root command and reports any error on stderr. SIGINT and
// SIGTERM cancel the command's context, which abandons any pending lock wait.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		reportError(rootCmd.ErrOrStderr(), err)
	}
	return err
}

// reportError prints err for the user. Phonebook errors that are not meant
// for users are replaced by a generic message; retryable ones get a hint.
func reportError(w io.Writer, err error) {
	var bookErr errors.BookError
	if errors.As(err, &bookErr) && !errors.IsUserFacing(err) {
		fmt.Fprintln(w, "Error: internal error")
		return
	}
	fmt.Fprintf(w, "Error: %v\n", err)
	if errors.IsRetryable(err) {
		fmt.Fprintln(w, "This may be temporary; try again.")
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $HOME/.config/phonebook/config.yaml)")
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))

	rootCmd.PersistentFlags().StringP("db", "d", "", "record file (default is ./database.txt)")
	_ = viper.BindPFlag("store.path", rootCmd.PersistentFlags().Lookup("db"))

	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
	_ = viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))

	rootCmd.PersistentFlags().String("log-dir", "", "write logs to phonebook.log in this directory instead of stderr")
	_ = viper.BindPFlag("logging.dir", rootCmd.PersistentFlags().Lookup("log-dir"))

	rootCmd.PersistentFlags().DurationVar(&lockTimeout, "timeout", 0, "give up waiting for the lock after this long (0 waits forever)")
}

func initConfig() {
	// Set defaults first so they're available even without a config file
	config.SetDefaults()

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(config.ConfigDir())
		viper.AddConfigPath(".")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("PHONEBOOK")
	// e.g., PHONEBOOK_STORE_PATH for store.path
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file if it exists (ignore error if not found)
	_ = viper.ReadInConfig()
}

// session bundles what a command needs to talk to the store.
type session struct {
	cfg    *config.Config
	logger *logging.Logger
	store  *phonebook.Store
	path   string
}

func openSession(component string) (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger, err := logging.NewLogger(cfg.Logging.Dir, logging.ParseLevel(cfg.Logging.Level))
	if err != nil {
		return nil, err
	}

	return &session{
		cfg:    cfg,
		logger: logger.WithComponent(component),
		store:  phonebook.New(storage.NewOSStorage(cfg.Store.Path)),
		path:   cfg.Store.Path,
	}, nil
}

func (s *session) Close() {
	_ = s.logger.Close()
}

// lockContext applies --timeout to a command's context.
func lockContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if lockTimeout > 0 {
		return context.WithTimeout(ctx, lockTimeout)
	}
	return context.WithCancel(ctx)
}
