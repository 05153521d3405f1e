package builder

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// App represents the application with all its components
type App struct {
	server          *http.Server
	components      *Components
	shutdownTimeout time.Duration
	logger          *zap.Logger
}

// Run serves HTTP until SIGINT/SIGTERM or a server error.
func (a *App) Run() error {
	// Start HTTP server in goroutine
	errChan := make(chan error, 1)
	go func() {
		a.logger.Info("Starting HTTP server", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	// Wait for interrupt signal or server error
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case err := <-errChan:
		a.logger.Error("Server error", zap.Error(err))
		_ = a.components.Close(context.Background())
		return err
	case sig := <-sigChan:
		a.logger.Info("Received shutdown signal", zap.String("signal", sig.String()))
	}

	// Graceful shutdown
	return a.shutdown()
}

// shutdown stops accepting requests, waits for in-flight ones and then closes the store.
func (a *App) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
	defer cancel()

	a.logger.Info("Shutting down server gracefully")

	serverErr := a.server.Shutdown(ctx)
	if serverErr != nil {
		a.logger.Error("Server shutdown error", zap.Error(serverErr))
	}

	a.logger.Info("Closing vector store connection")
	if err := a.components.Store.Close(ctx); err != nil {
		a.logger.Error("Vector store close error", zap.Error(err))
		serverErr = errors.Join(serverErr, err)
	}

	if serverErr == nil {
		a.logger.Info("Application stopped gracefully")
	}
	_ = a.logger.Sync()
	return serverErr
}
