package server

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/Moonlight-Companies/mbapserver/common"
	"github.com/Moonlight-Companies/mbapserver/logging"
	"github.com/Moonlight-Companies/mbapserver/mbap"
)

// TCPServer accepts Modbus TCP connections and drives a codec with one
// reassembled query frame at a time. Framing and socket lifecycle live here;
// all protocol semantics live in the codec.
// Ref: Modbus_Messaging_Implementation_Guide_V1_0b.pdf, Section 3 (Modbus TCP/IP Protocol)
type TCPServer struct {
	// Server binding configuration
	address  string
	port     int
	listener net.Listener

	// The request processor
	codec *mbap.Codec

	// Server state
	running      bool
	clients      map[string]*clientConn
	clientsMutex sync.RWMutex
	mutex        sync.RWMutex
	logger       common.LoggerInterface
	stopChan     chan struct{}
}

// TCPServerOption is a function type for configuring a TCPServer
type TCPServerOption func(*TCPServer)

// WithServerPort sets the TCP port for the server
func WithServerPort(port int) TCPServerOption {
	return func(s *TCPServer) {
		s.port = port
	}
}

// WithServerLogger sets the logger for the server
func WithServerLogger(logger common.LoggerInterface) TCPServerOption {
	return func(s *TCPServer) {
		s.logger = logger
	}
}

// NewTCPServer creates a new Modbus TCP server around a codec
func NewTCPServer(address string, codec *mbap.Codec, options ...TCPServerOption) *TCPServer {
	server := &TCPServer{
		address: address,
		port:    common.DefaultTCPPort,
		codec:   codec,
		logger:  logging.NewLogger(),
		clients: make(map[string]*clientConn),
	}

	for _, option := range options {
		option(server)
	}

	return server
}

// Start starts the server
func (s *TCPServer) Start(ctx context.Context) error {
	s.mutex.Lock()
	if s.running {
		s.mutex.Unlock()
		return fmt.Errorf("server already running")
	}

	addr := fmt.Sprintf("%s:%d", s.address, s.port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		s.mutex.Unlock()
		return err
	}

	s.listener = listener
	s.running = true
	s.stopChan = make(chan struct{})
	s.mutex.Unlock()

	s.logger.Info(ctx, "Modbus TCP server started on %s", addr)

	// Start accepting connections
	go s.acceptLoop(ctx)

	return nil
}

// Stop stops the server
func (s *TCPServer) Stop(ctx context.Context) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if !s.running {
		return nil // Already stopped
	}

	// Signal accept loop to stop
	close(s.stopChan)

	// Close listener
	if s.listener != nil {
		s.listener.Close()
	}

	// Close all client connections
	s.clientsMutex.Lock()
	for _, client := range s.clients {
		client.conn.Close()
	}
	s.clients = make(map[string]*clientConn)
	s.clientsMutex.Unlock()

	s.running = false
	s.logger.Info(ctx, "Modbus TCP server stopped")
	return nil
}

// IsRunning returns true if the server is running
func (s *TCPServer) IsRunning() bool {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.running
}

// acceptLoop accepts incoming connections
func (s *TCPServer) acceptLoop(ctx context.Context) {
	for {
		// Check if we should stop
		select {
		case <-s.stopChan:
			return
		default:
			// Continue accepting
		}

		// Set accept deadline to allow checking for stop signal
		s.listener.(*net.TCPListener).SetDeadline(time.Now().Add(time.Second))

		conn, err := s.listener.Accept()
		if err != nil {
			if opErr, ok := err.(*net.OpError); ok && opErr.Timeout() {
				// Timeout, just retry
				continue
			}

			// Check if we're shutting down
			select {
			case <-s.stopChan:
				return
			default:
				s.logger.Error(ctx, "Error accepting connection: %v", err)
				continue
			}
		}

		s.logger.Info(ctx, "New client connected: %s", conn.RemoteAddr().String())

		// Track the connection
		client := newClientConn(conn)
		s.clientsMutex.Lock()
		s.clients[client.remoteAddr] = client
		s.clientsMutex.Unlock()

		// Handle the client connection
		go s.handleConnection(client)
	}
}

// handleConnection reads query frames off a connection, one at a time, and
// feeds them to the codec. A zero-length codec result means the query was
// silently dropped; nothing is written back and the connection stays open.
// Ref: Modbus_Messaging_Implementation_Guide_V1_0b.pdf, Section 3 (Message Processing)
func (s *TCPServer) handleConnection(client *clientConn) {
	ctx := context.Background()
	conn := client.conn
	remoteAddr := client.remoteAddr
	defer func() {
		// Remove client from tracked connections
		s.clientsMutex.Lock()
		delete(s.clients, remoteAddr)
		s.clientsMutex.Unlock()

		// Close the connection
		conn.Close()
		s.logger.Info(ctx, "Client disconnected: %s", remoteAddr)
	}()

	for {
		// Set a read deadline to prevent hanging forever
		conn.SetReadDeadline(time.Now().Add(30 * time.Second))

		// Read the MBAP header (7 bytes)
		// Ref: Modbus_Messaging_Implementation_Guide_V1_0b.pdf, Section 3.1 (MBAP Header)
		// - Transaction Identifier (2 bytes)
		// - Protocol Identifier (2 bytes, 0 for Modbus)
		// - Length (2 bytes, number of following bytes including unit ID)
		// - Unit Identifier (1 byte)
		header := make([]byte, common.TCPHeaderLength)
		_, err := io.ReadFull(conn, header)
		if err != nil {
			if err == io.EOF || strings.Contains(err.Error(), "use of closed network connection") {
				// Normal client disconnect
				return
			}
			if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
				// Timeout, just continue
				continue
			}
			s.logger.Error(ctx, "Error reading header from %s: %v", remoteAddr, err)
			return
		}

		// The length field delimits the frame on the stream. A value outside
		// [2, 256] means we lost framing; the only safe move is to close.
		length := binary.BigEndian.Uint16(header[4:6])
		if length < 2 || length > common.MaxMBAPLength {
			s.logger.Error(ctx, "Unframeable length field from %s: %d", remoteAddr, length)
			return
		}

		// Read the remainder: function code and data (unit id is already in
		// the header)
		frame := make([]byte, common.TCPHeaderLength+int(length)-1)
		copy(frame, header)
		if _, err := io.ReadFull(conn, frame[common.TCPHeaderLength:]); err != nil {
			s.logger.Error(ctx, "Error reading frame body from %s: %v", remoteAddr, err)
			return
		}

		client.rxCount.Add(1)
		client.fcCount[frame[7]].Add(1)

		s.logger.Debug(ctx, "Received query from %s: function=%s",
			remoteAddr, common.FunctionCode(frame[7]))
		if hexdumper, ok := s.logger.(common.LoggerInterfaceHexdump); ok {
			hexdumper.Hexdump(ctx, frame)
		}

		response := s.codec.ProcessRequest(frame)
		if len(response) == 0 {
			// Frame-level malformation or internal inconsistency; the codec
			// answers these with silence
			s.logger.Warn(ctx, "Dropped query from %s", remoteAddr)
			continue
		}

		if _, err := conn.Write(response); err != nil {
			s.logger.Error(ctx, "Error sending response to %s: %v", remoteAddr, err)
			return
		}

		client.txCount.Add(1)

		if hexdumper, ok := s.logger.(common.LoggerInterfaceHexdump); ok {
			hexdumper.Hexdump(ctx, response)
		}
	}
}
