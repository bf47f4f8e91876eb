package main

import (
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"os"
	"regexp"

	"github.com/aretw0/blackboard/internal/logging"
	"github.com/aretw0/blackboard/pkg/adapters/file"
	"github.com/aretw0/blackboard/pkg/adapters/redis"
	"github.com/aretw0/blackboard/pkg/library"
	"github.com/aretw0/blackboard/pkg/persistence/middleware"
	"github.com/aretw0/blackboard/pkg/ports"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "blackboard",
	Short: "Blackboard manages typed parameter registries",
	Long: `Blackboard stores registries of named, typed parameters as templates and
creates independent instances of them with selected parameters overridden.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("store-dir", "", "Directory of the file template store (default .blackboard/templates)")
	rootCmd.PersistentFlags().String("redis-addr", "", "Use the Redis template store at this address")
	rootCmd.PersistentFlags().String("redis-password", "", "Redis password")
	rootCmd.PersistentFlags().Int("redis-db", 0, "Redis database")
	rootCmd.PersistentFlags().StringSlice("redact", nil, "Do not store values of parameters matching these patterns")
}

// newLogger builds the logger selected by --log-level, writing to the
// command's error stream.
func newLogger(cmd *cobra.Command) (*slog.Logger, error) {
	value, _ := cmd.Flags().GetString("log-level")
	level, err := logging.ParseLevel(value)
	if err != nil {
		return nil, err
	}
	return logging.NewWriter(cmd.ErrOrStderr(), level), nil
}

// encryptionKeyEnv names the variable holding a base64 AES-256 key. When set,
// templates are stored encrypted.
const encryptionKeyEnv = "BLACKBOARD_ENCRYPTION_KEY"

// openStore returns the template store selected by the persistent flags,
// wrapped with the configured middleware. Redis wins over the file store when
// --redis-addr is set, and then also provides the distributed locker.
func openStore(cmd *cobra.Command) (ports.TemplateStore, ports.DistributedLocker, io.Closer, error) {
	var (
		store  ports.TemplateStore
		locker ports.DistributedLocker
		closer io.Closer = nopCloser{}
	)

	// 1. Backend
	if addr, _ := cmd.Flags().GetString("redis-addr"); addr != "" {
		password, _ := cmd.Flags().GetString("redis-password")
		db, _ := cmd.Flags().GetInt("redis-db")
		rs := redis.New(addr, password, db)
		store, closer = rs, rs
		locker = redis.NewLocker(rs.Client(), redis.DefaultPrefix+"lock:")
	} else {
		dir, _ := cmd.Flags().GetString("store-dir")
		store = file.New(dir)
	}

	// 2. Middleware
	var mws []middleware.Middleware
	if patterns, _ := cmd.Flags().GetStringSlice("redact"); len(patterns) > 0 {
		for _, p := range patterns {
			if _, err := regexp.Compile(p); err != nil {
				return nil, nil, nil, fmt.Errorf("invalid --redact pattern %q: %w", p, err)
			}
		}
		mws = append(mws, middleware.NewRedactionMiddleware(patterns))
	}
	if encoded := os.Getenv(encryptionKeyEnv); encoded != "" {
		key, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil || len(key) != 32 {
			return nil, nil, nil, fmt.Errorf("%s must be a base64 encoded 32 byte key", encryptionKeyEnv)
		}
		mws = append(mws, middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key}))
	}

	return middleware.Chain(store, mws...), locker, closer, nil
}

// newManager wires a library.Manager over the selected store.
func newManager(cmd *cobra.Command, opts ...library.Option) (*library.Manager, io.Closer, error) {
	logger, err := newLogger(cmd)
	if err != nil {
		return nil, nil, err
	}
	store, locker, closer, err := openStore(cmd)
	if err != nil {
		return nil, nil, err
	}

	opts = append([]library.Option{library.WithLogger(logger)}, opts...)
	if locker != nil {
		opts = append(opts, library.WithLocker(locker))
	}
	return library.NewManager(store, opts...), closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
