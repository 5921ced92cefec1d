package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"launchpad/internal/domain"
)

const (
	clientQueueSize = 64
	writeTimeout    = 5 * time.Second
)

// clientConn tracks a single feed connection.
type clientConn struct {
	info      *ClientInfo
	ws        *websocket.Conn
	sendCh    chan Frame // buffered outbound queue
	done      chan struct{}
	closeOnce sync.Once
}

func (cc *clientConn) close() {
	cc.closeOnce.Do(func() { close(cc.done) })
}

// Server is the HTTP surface of the setup backend. It serves the registered
// routes and, when an Authenticator is configured, a WebSocket feed at /ws
// that forwards every bus event to connected observers.
type Server struct {
	bus       domain.EventBus
	clients   sync.Map // connID (uint64) -> *clientConn
	connected atomic.Int64
	auth      Authenticator // nil disables the feed
	logger    *slog.Logger
	addr      string
	httpSrv   *http.Server
	boundAddr atomic.Value // string
	nextID    atomic.Uint64
	routes    []httpRoute

	subscribeOnce sync.Once
	unsubAll      func()
}

type httpRoute struct {
	pattern string
	handler http.Handler
}

// NewServer creates a gateway server. auth may be nil.
func NewServer(bus domain.EventBus, auth Authenticator, addr string, logger *slog.Logger) *Server {
	return &Server{
		bus:    bus,
		auth:   auth,
		logger: logger,
		addr:   addr,
	}
}

// RegisterHTTPRoute adds a handler to the gateway's mux. Patterns use the
// net/http method syntax, e.g. "POST /setup/save-env".
// Must be called before Handler or Start.
func (s *Server) RegisterHTTPRoute(pattern string, handler http.Handler) {
	s.routes = append(s.routes, httpRoute{pattern: pattern, handler: handler})
}

// Handler builds the mux and starts forwarding bus events to feed observers.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	if s.auth != nil {
		mux.HandleFunc("GET /ws", s.handleUpgrade)
		s.subscribeOnce.Do(s.forwardEvents)
	}
	for _, route := range s.routes {
		mux.Handle(route.pattern, route.handler)
	}
	return mux
}

// Start begins serving. Blocks until ctx is cancelled or the listener fails.
func (s *Server) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("gateway listen: %w", err)
	}
	s.boundAddr.Store(listener.Addr().String())

	s.httpSrv = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.logger.Info("gateway started", "addr", s.BoundAddr(), "feed", s.auth != nil)

	go func() {
		<-ctx.Done()
		s.Stop(context.Background())
	}()

	if err := s.httpSrv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("gateway serve: %w", err)
	}
	return nil
}

// Stop closes every feed connection and shuts the HTTP server down.
// In-flight publish runs are not interrupted.
func (s *Server) Stop(ctx context.Context) error {
	if s.unsubAll != nil {
		s.unsubAll()
	}

	s.clients.Range(func(key, value any) bool {
		cc := value.(*clientConn)
		cc.close()
		cc.ws.Close(websocket.StatusGoingAway, "server shutting down")
		if _, loaded := s.clients.LoadAndDelete(key); loaded {
			s.connected.Add(-1)
		}
		return true
	})

	if s.httpSrv != nil {
		shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return s.httpSrv.Shutdown(shutdownCtx)
	}
	return nil
}

// BoundAddr returns the address the server bound to. Only valid after Start.
func (s *Server) BoundAddr() string {
	addr, _ := s.boundAddr.Load().(string)
	return addr
}

// Observers returns the number of connected feed clients.
func (s *Server) Observers() int { return int(s.connected.Load()) }

func (s *Server) forwardEvents() {
	s.unsubAll = s.bus.SubscribeAll(func(_ context.Context, event domain.Event) {
		payload, err := json.Marshal(event)
		if err != nil {
			return
		}
		frame := Frame{Type: FrameTypeEvent, Payload: payload}
		s.clients.Range(func(_, value any) bool {
			cc := value.(*clientConn)
			select {
			case cc.sendCh <- frame:
			default:
				s.logger.Warn("gateway: dropped event for slow observer", "client", cc.info.Name)
			}
			return true
		})
	})
}

func (s *Server) handleUpgrade(w http.ResponseWriter, r *http.Request) {
	clientInfo, err := s.auth.Authenticate(r.URL.Query().Get("token"))
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	ws, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{
			"localhost",
			"localhost:*",
			"127.0.0.1",
			"127.0.0.1:*",
			"[::1]",
			"[::1]:*",
		},
	})
	if err != nil {
		s.logger.Warn("websocket accept failed", "error", err)
		return
	}

	connID := s.nextID.Add(1)
	cc := &clientConn{
		info:   clientInfo,
		ws:     ws,
		sendCh: make(chan Frame, clientQueueSize),
		done:   make(chan struct{}),
	}
	hello, _ := json.Marshal(map[string]string{"client": clientInfo.Name})
	cc.sendCh <- Frame{Type: FrameTypeHello, Payload: hello}

	s.clients.Store(connID, cc)
	s.connected.Add(1)
	s.logger.Info("gateway observer connected", "conn_id", connID, "client", clientInfo.Name)

	go s.writeLoop(cc)

	// Observers never send; CloseRead handles control frames and reports
	// when the peer goes away.
	readCtx := ws.CloseRead(r.Context())
	select {
	case <-readCtx.Done():
	case <-cc.done:
	}

	cc.close()
	if _, loaded := s.clients.LoadAndDelete(connID); loaded {
		s.connected.Add(-1)
	}
	ws.Close(websocket.StatusNormalClosure, "")
	s.logger.Info("gateway observer disconnected", "conn_id", connID)
}

func (s *Server) writeLoop(cc *clientConn) {
	for {
		select {
		case <-cc.done:
			return
		case frame := <-cc.sendCh:
			ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
			err := wsjson.Write(ctx, cc.ws, frame)
			cancel()
			if err != nil {
				cc.close()
				return
			}
		}
	}
}
