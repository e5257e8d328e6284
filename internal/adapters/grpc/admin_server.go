package grpc

import (
	"context"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/status"

	"github.com/andrescamacho/voidfleet-go/internal/application/logging"
	"github.com/andrescamacho/voidfleet-go/internal/application/mediator"
)

// AdminServer exposes the admin service on a unix domain socket
type AdminServer struct {
	listener net.Listener
	server   *grpc.Server
	log      *logrus.Logger
}

// NewAdminServer binds the socket and registers the admin service
func NewAdminServer(m mediator.Mediator, socketPath string, log *logrus.Logger) (*AdminServer, error) {
	// Remove a socket left behind by a previous run
	if err := os.RemoveAll(socketPath); err != nil {
		return nil, fmt.Errorf("failed to remove existing socket: %w", err)
	}

	listener, err := net.Listen("unix", socketPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create unix socket listener: %w", err)
	}

	// Owner only
	if err := os.Chmod(socketPath, 0600); err != nil {
		listener.Close()
		return nil, fmt.Errorf("failed to set socket permissions: %w", err)
	}

	if log == nil {
		log = logrus.StandardLogger()
	}

	server := grpc.NewServer(grpc.ChainUnaryInterceptor(loggingInterceptor(log)))
	RegisterAdminService(server, newAdminServiceImpl(m))

	return &AdminServer{listener: listener, server: server, log: log}, nil
}

// Addr returns the socket address
func (s *AdminServer) Addr() string {
	return s.listener.Addr().String()
}

// Serve blocks until ctx is cancelled, then drains in-flight calls
func (s *AdminServer) Serve(ctx context.Context) error {
	s.log.WithField("socket", s.Addr()).Info("Admin server listening")

	errChan := make(chan error, 1)
	go func() {
		if err := s.server.Serve(s.listener); err != nil {
			errChan <- fmt.Errorf("gRPC server error: %w", err)
		}
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		s.log.Info("Initiating graceful shutdown of admin server")
		s.server.GracefulStop()
		return nil
	}
}

// loggingInterceptor attaches a request logger to the context and records
// the outcome of every call
func loggingInterceptor(log *logrus.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		ctx, entry := logging.WithFields(logging.WithLogger(ctx, logrus.NewEntry(log)), logrus.Fields{
			"method": info.FullMethod,
		})

		resp, err := handler(ctx, req)

		entry = entry.WithFields(logrus.Fields{
			"code":     status.Code(err).String(),
			"duration": time.Since(start),
		})
		if err != nil {
			entry.WithError(err).Warn("Admin call failed")
		} else {
			entry.Debug("Admin call completed")
		}
		return resp, err
	}
}
