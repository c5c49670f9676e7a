package main

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ais-service/internal/domain"
	"github.com/ais-service/internal/repository/cache"
	redisRepo "github.com/ais-service/internal/repository/redis"
)

var (
	flagReason  string
	flagVersion string
)

var publishRefreshCmd = &cobra.Command{
	Use:   "publish-refresh",
	Short: "Ask running servers to rebuild their index",
	Long:  "Appends an index refresh event to the refresh stream. Every server consuming the stream reloads the snapshot.",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := cache.NewRedisStreams(&cfg.Redis, 0, log)
		if err != nil {
			return err
		}
		defer client.Close()

		streamRepo := redisRepo.NewStreamRepository(client, 0, log)
		event := domain.IndexRefreshEvent{
			EventID:     uuid.New(),
			Version:     flagVersion,
			Reason:      flagReason,
			RequestedAt: time.Now().UTC(),
		}
		id, err := streamRepo.PublishToStream(cmd.Context(), cfg.Worker.RefreshStream, event)
		if err != nil {
			return err
		}

		log.Info("Refresh event published",
			zap.String("stream", cfg.Worker.RefreshStream),
			zap.String("message_id", id),
			zap.String("event_id", event.EventID.String()))
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), id)
		return nil
	},
}

func init() {
	publishRefreshCmd.Flags().StringVar(&flagReason, "reason", "manual", "reason recorded in the event")
	publishRefreshCmd.Flags().StringVar(&flagVersion, "version", "", "snapshot version the event refers to")
	rootCmd.AddCommand(publishRefreshCmd)
}
