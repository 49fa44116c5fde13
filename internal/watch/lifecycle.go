// Package watch keeps a long-running optimizer host alive: it re-runs the
// optimizer whenever the configuration file changes and shuts down cleanly on
// SIGINT or SIGTERM.
package watch

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// Service is a long-running component managed by a Lifecycle.
type Service interface {
	// Start blocks until Stop is called or the service fails.
	Start() error
	// Stop unblocks Start. It must be safe to call more than once.
	Stop()
}

// Lifecycle starts a fixed set of services and stops them in reverse order.
type Lifecycle struct {
	logger   *zap.Logger
	services []namedService
	signals  []os.Signal
}

type namedService struct {
	name    string
	service Service
}

// NewLifecycle creates a Lifecycle that shuts down on SIGINT or SIGTERM.
//
// Precondition: logger must be non-nil.
func NewLifecycle(logger *zap.Logger) *Lifecycle {
	return &Lifecycle{
		logger:  logger,
		signals: []os.Signal{syscall.SIGINT, syscall.SIGTERM},
	}
}

// Add registers svc. Services start in the order added.
//
// Precondition: must not be called after Run.
func (l *Lifecycle) Add(name string, svc Service) {
	l.services = append(l.services, namedService{name: name, service: svc})
}

// Run starts every service and blocks until a signal arrives, ctx is
// cancelled, or a service fails.
//
// Postcondition: every service has been stopped and has returned from Start.
// The error is that of the first failed service, or nil.
func (l *Lifecycle) Run(ctx context.Context) error {
	start := time.Now()

	errCh := make(chan error, len(l.services))
	exited := make(chan struct{}, len(l.services))
	for _, ns := range l.services {
		ns := ns
		go func() {
			defer func() { exited <- struct{}{} }()
			l.logger.Debug("starting service", zap.String("service", ns.name))
			if err := ns.service.Start(); err != nil {
				l.logger.Error("service failed", zap.String("service", ns.name), zap.Error(err))
				errCh <- fmt.Errorf("service %s: %w", ns.name, err)
			}
		}()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, l.signals...)
	defer signal.Stop(sigCh)

	var runErr error
	select {
	case sig := <-sigCh:
		l.logger.Info("received signal, shutting down", zap.String("signal", sig.String()))
	case runErr = <-errCh:
	case <-ctx.Done():
		l.logger.Debug("context cancelled, shutting down")
	}

	for i := len(l.services) - 1; i >= 0; i-- {
		l.services[i].service.Stop()
	}
	for range l.services {
		<-exited
	}

	l.logger.Info("shutdown complete", zap.Duration("uptime", time.Since(start)))
	return runErr
}
