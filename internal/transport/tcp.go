package transport

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"skipbo/internal/session"
)

// TCPServer accepts plaintext socket clients speaking the line protocol, one
// reader goroutine per connection.
type TCPServer struct {
	addr string
	sess *session.Session
	log  *zap.Logger
}

func NewTCPServer(addr string, sess *session.Session, log *zap.Logger) *TCPServer {
	return &TCPServer{addr: addr, sess: sess, log: log}
}

// Run listens until ctx is cancelled. A bind failure is the one error that
// takes the process down.
func (s *TCPServer) Run(ctx context.Context) error {
	lc := net.ListenConfig{}
	ln, err := lc.Listen(ctx, "tcp", s.addr)
	if err != nil {
		return fmt.Errorf("tcp listen on %s: %w", s.addr, err)
	}
	s.log.Info("tcp server listening", zap.String("addr", s.addr))

	go func() {
		<-ctx.Done()
		_ = ln.Close()
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			s.log.Warn("accept failed", zap.Error(err))
			continue
		}
		go s.handleConn(ctx, conn)
	}
}

func (s *TCPServer) handleConn(ctx context.Context, conn net.Conn) {
	defer conn.Close()

	connCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	c := NewClient(uuid.NewString(), s.sess, s.log)
	defer c.Close()
	s.log.Info("connection opened",
		zap.String("conn", c.ID),
		zap.String("remote", conn.RemoteAddr().String()))

	// Single writer per socket: everything the server says to this client
	// funnels through the outbox.
	writeDone := make(chan struct{})
	go func() {
		defer close(writeDone)
		for {
			select {
			case line := <-c.Outbox():
				if _, err := fmt.Fprintf(conn, "%s\n", line); err != nil {
					return
				}
			case <-connCtx.Done():
				return
			}
		}
	}()

	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		c.HandleLine(strings.TrimSpace(scanner.Text()))
	}
	if err := scanner.Err(); err != nil {
		s.log.Info("connection read ended", zap.String("conn", c.ID), zap.Error(err))
	}

	cancel()
	<-writeDone
}
