package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"
)

// MarkReady creates the readiness file checked by the orchestrator.
func MarkReady(fileName string) error {
	if err := touch(fileName); err != nil {
		return fmt.Errorf("failed to create readiness file: %w", err)
	}
	return nil
}

// MarkNotReady removes the readiness file. A missing file is not an error.
func MarkNotReady(fileName string) error {
	if err := os.Remove(fileName); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove readiness file: %w", err)
	}
	return nil
}

// RunLiveness refreshes the liveness file every interval until ctx is done.
// The file is removed on return.
func RunLiveness(ctx context.Context, fileName string, interval time.Duration, logger *slog.Logger) error {
	if err := touch(fileName); err != nil {
		return fmt.Errorf("failed to create liveness file: %w", err)
	}
	defer func() {
		if err := os.Remove(fileName); err != nil && !os.IsNotExist(err) {
			logger.Warn("failed to remove liveness file", slog.String("file", fileName), slog.Any("error", err))
		}
	}()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := touch(fileName); err != nil {
				logger.Error("failed to refresh liveness file", slog.String("file", fileName), slog.Any("error", err))
			}
		}
	}
}

// touch writes the current unix time into fileName, creating it if needed.
func touch(fileName string) error {
	return os.WriteFile(fileName, []byte(strconv.FormatInt(time.Now().Unix(), 10)), 0o644)
}
