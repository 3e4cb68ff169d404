package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/fitmix/backend/internal/auth"
	"github.com/fitmix/backend/internal/config"
	"github.com/fitmix/backend/internal/db"
	"github.com/fitmix/backend/internal/generator"
	"github.com/fitmix/backend/internal/progress"
	"github.com/fitmix/backend/internal/telemetry/metrics"
	"github.com/fitmix/backend/internal/workouts"
	"github.com/fitmix/backend/pkg"
)

const commandTimeout = 30 * time.Second

func newHashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password [password]",
		Short: "Print the bcrypt hash of a password, read from stdin when not given",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var password string
			if len(args) == 1 {
				password = args[0]
			} else {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && !errors.Is(err, io.EOF) {
					return fmt.Errorf("read password: %w", err)
				}
				password = strings.TrimRight(line, "\r\n")
			}
			if password == "" {
				return errors.New("password empty")
			}

			hash, err := pkg.HashPassword(password)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), hash)
			return err
		},
	}
}

func newValidateProgramCmd() *cobra.Command {
	var daysPerWeek int

	cmd := &cobra.Command{
		Use:   "validate-program",
		Short: "Validate a generated workout program read from stdin",
		Long: `Reads a generative model response from stdin, runs the workout program
validator on it and prints the validated days as JSON.
Exits with an error when the response is rejected.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("read response: %w", err)
			}

			days, err := generator.ParseProgram(string(raw), daysPerWeek)
			if err != nil {
				return err
			}

			return writeJSON(cmd.OutOrStdout(), days)
		},
	}
	cmd.Flags().IntVar(&daysPerWeek, "days", 3, "requested training days per week")

	return cmd
}

func newProgressCmd(opts *rootOptions) *cobra.Command {
	var userID string

	cmd := &cobra.Command{
		Use:   "progress",
		Short: "Print the progress summary of a user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.env, opts.configPath)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()

			dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
				DBHost:     cfg.PostgresHost,
				DBPort:     cfg.PostgresPort,
				DBName:     cfg.PostgresDBName,
				DBUser:     cfg.PostgresUser,
				DBPassword: os.Getenv("FITMIX_POSTGRES_PASS"),
			})
			if err != nil {
				return fmt.Errorf("db pool: %w", err)
			}
			defer dbPool.Close()

			progressService := progress.NewService(
				workouts.NewRepo(dbPool),
				metrics.NewManager("fitmix", "ctl", prometheus.NewRegistry()),
			)
			summary, err := progressService.Progress(ctx, userID)
			if err != nil {
				return err
			}

			return writeJSON(cmd.OutOrStdout(), summary)
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "user id")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func newCleanSessionsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "clean-sessions",
		Short: "Remove expired sessions from redis",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.env, opts.configPath)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()

			rdb := redis.NewClient(&redis.Options{
				Addr:     net.JoinHostPort(cfg.RedisHost, cfg.RedisPort),
				Password: os.Getenv("FITMIX_REDIS_PASS"),
			})
			defer rdb.Close()

			if err := rdb.Ping(ctx).Err(); err != nil {
				return fmt.Errorf("ping redis: %w", err)
			}

			ttl := time.Duration(cfg.SessionTTLHours) * time.Hour
			auth.NewAuthService(nil, ttl, rdb, nil).ScanAndClean(ctx)
			_, err = fmt.Fprintln(cmd.OutOrStdout(), "sessions cleaned")
			return err
		},
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
