// Package server streams a live grid to browsers over a websocket. Every
// connection gets its own grid, seeded from the page URL or at random.
package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"math"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/san-kum/schotter/internal/config"
	"github.com/san-kum/schotter/internal/control"
	"github.com/san-kum/schotter/internal/grid"
	"github.com/san-kum/schotter/internal/render"
	"github.com/san-kum/schotter/internal/sim"
)

var upgrader = websocket.Upgrader{}

const (
	// Time allowed to write a message to the peer.
	writeWait = 1 * time.Second
	// Maximum message size allowed from peer.
	maxMessageSize = 512
	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second
	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10
)

// Frame is one tick as sent to the page. Each square is x, y, degrees.
type Frame struct {
	Tick    int          `json:"tick"`
	Seed    int64        `json:"seed"`
	Moving  int          `json:"moving"`
	Squares [][3]float64 `json:"squares"`
}

// Message is a command sent by the page, e.g. {"command":"reseed","value":7}.
type Message struct {
	Command string  `json:"command"`
	Value   float64 `json:"value"`
}

type Server struct {
	addr   string
	cfg    config.Config
	layout render.Layout
	pool   *sim.PosePool
	log    *zap.Logger
}

func New(addr string, cfg *config.Config, log *zap.Logger) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{
		addr:   addr,
		cfg:    *cfg,
		layout: cfg.Layout(),
		pool:   sim.NewPosePool(cfg.Cols * cfg.Rows),
		log:    log.Named("server"),
	}, nil
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.serveIndex)
	mux.HandleFunc("/ws", s.serveWebsocket)
	return mux
}

// Serve listens until ctx is cancelled, then shuts down and closes every
// open stream.
func (s *Server) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:        s.addr,
		Handler:     s.Handler(),
		BaseContext: func(net.Listener) context.Context { return ctx },
	}
	errs := make(chan error, 1)
	go func() {
		s.log.Info("listening", zap.String("addr", s.addr))
		errs <- srv.ListenAndServe()
	}()

	select {
	case err := <-errs:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}
	shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdown); err != nil {
		return err
	}
	if err := <-errs; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// newGrid builds a connection's grid. A "seed" query parameter pins the
// seed; otherwise the configured seed is used, and zero picks one at random.
func (s *Server) newGrid(r *http.Request) (*grid.Grid, error) {
	seed := s.cfg.Seed
	if q := r.URL.Query().Get("seed"); q != "" {
		seed = grid.ParseSeed(q)
	}
	if seed <= 0 {
		seed = config.RandomSeed()
	}
	return grid.New(s.cfg.Cols, s.cfg.Rows, s.cfg.Animation, seed)
}

func (s *Server) serveWebsocket(w http.ResponseWriter, r *http.Request) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("upgrade failed", zap.Error(err))
		return
	}
	defer ws.Close()

	g, err := s.newGrid(r)
	if err != nil {
		s.log.Error("cannot build grid", zap.Error(err))
		return
	}
	log := s.log.With(zap.String("remote", r.RemoteAddr), zap.Int64("seed", g.Seed()))
	log.Info("stream opened")
	defer log.Info("stream closed")

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	cmds := make(chan Message, 8)
	go s.readCommands(ctx, cancel, ws, cmds)
	if err := s.stream(ctx, ws, g, cmds, log); err != nil {
		log.Debug("stream ended", zap.Error(err))
	}
}

// readCommands is the only reader of ws. It cancels the stream when the
// peer goes away.
func (s *Server) readCommands(ctx context.Context, cancel context.CancelFunc, ws *websocket.Conn, out chan<- Message) {
	defer cancel()
	ws.SetReadLimit(maxMessageSize)
	_ = ws.SetReadDeadline(time.Now().Add(pongWait))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		var msg Message
		if err := ws.ReadJSON(&msg); err != nil {
			return
		}
		select {
		case out <- msg:
		case <-ctx.Done():
			return
		}
	}
}

// stream is the only writer of ws. It ticks the grid at the configured frame
// rate and applies commands between ticks.
func (s *Server) stream(ctx context.Context, ws *websocket.Conn, g *grid.Grid, cmds <-chan Message, log *zap.Logger) error {
	session := control.NewSession(g, nil, nil, "", log)
	ticker := time.NewTicker(time.Second / time.Duration(s.cfg.FPS))
	defer ticker.Stop()
	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	for {
		select {
		case <-ctx.Done():
			_ = ws.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeWait))
			return ctx.Err()
		case msg := <-cmds:
			cmd, err := control.ParseCommand(msg.Command)
			if err == nil {
				err = session.Apply(cmd, msg.Value)
			}
			if err != nil {
				log.Warn("command rejected", zap.String("command", msg.Command), zap.Error(err))
			}
		case <-ping.C:
			if err := ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return err
			}
		case <-ticker.C:
			g.Tick()
			if err := ws.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return err
			}
			if err := ws.WriteJSON(s.frame(g)); err != nil {
				return err
			}
		}
	}
}

func (s *Server) frame(g *grid.Grid) Frame {
	poses := s.pool.Snapshot(g)
	defer s.pool.Put(poses)

	f := Frame{
		Tick:    g.Ticks(),
		Seed:    g.Seed(),
		Squares: make([][3]float64, len(*poses)),
	}
	for i, p := range *poses {
		x, y := s.layout.Center(p)
		f.Squares[i] = [3]float64{round(x), round(y), round(p.Rotation * 180 / math.Pi)}
		if p.Moving {
			f.Moving++
		}
	}
	return f
}

func round(v float64) float64 { return math.Round(v*1000) / 1000 }

func (s *Server) serveIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	g, err := grid.New(s.cfg.Cols, s.cfg.Rows, s.cfg.Animation, 1)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	var drawing bytes.Buffer
	render.WriteSVG(&drawing, s.layout, g.Poses())

	w.Header().Set("Content-Type", "text/html")
	if err := indexTemplate.Execute(w, page{
		SVG:  template.HTML(drawing.String()),
		Half: float64(s.layout.CellSize) / 2,
	}); err != nil {
		s.log.Warn("render index", zap.Error(err))
	}
}
