package tcp

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dayanaadylkhanova/crossword/internal/entity"
)

const maxRequestBytes = 64 << 10

type Server struct {
	log       *slog.Logger
	addr      string
	ttl       time.Duration
	pow       PoW
	exec      Executor
	rec       Recorder
	ln        net.Listener
	wg        sync.WaitGroup
	connsMu   sync.Mutex
	active    map[net.Conn]struct{}
	shutdownT time.Duration
	ctx       context.Context
}

func NewServer(log *slog.Logger, addr string, ttl, shutdown time.Duration, pow PoW, exec Executor, rec Recorder) *Server {
	return &Server{
		log:       log,
		addr:      addr,
		ttl:       ttl,
		shutdownT: shutdown,
		pow:       pow,
		exec:      exec,
		rec:       rec,
		active:    make(map[net.Conn]struct{}),
		ctx:       context.Background(),
	}
}

func (s *Server) Name() string { return "tcp" }

func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	s.ln = ln
	s.ctx = ctx
	s.log.Info("tcp server started", "addr", ln.Addr().String(), "ttl", s.ttl.String())

	errCh := make(chan error, 1)
	go func() { errCh <- s.acceptLoop() }()

	select {
	case <-ctx.Done():
		s.log.Info("shutdown: closing listener")
		_ = s.ln.Close()

		s.connsMu.Lock()
		for c := range s.active {
			_ = c.SetDeadline(time.Now().Add(200 * time.Millisecond))
			if tc, ok := c.(*net.TCPConn); ok {
				_ = tc.CloseWrite()
			}
		}
		s.connsMu.Unlock()

		done := make(chan struct{})
		go func() { s.wg.Wait(); close(done) }()
		select {
		case <-done:
			s.log.Info("shutdown: all connections drained")
		case <-time.After(s.shutdownT):
			s.log.Warn("shutdown: force-close remaining connections")
			s.connsMu.Lock()
			for c := range s.active {
				_ = c.Close()
			}
			s.connsMu.Unlock()
		}
		return nil

	case err := <-errCh:
		return err
	}
}

func (s *Server) acceptLoop() error {
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				s.log.Warn("temporary accept error", "err", err)
				time.Sleep(50 * time.Millisecond)
				continue
			}
			return fmt.Errorf("accept: %w", err)
		}
		s.track(conn, true)
		s.wg.Add(1)
		go func(c net.Conn) {
			defer s.wg.Done()
			defer s.track(c, false)
			s.handle(c)
		}(conn)
	}
}

func (s *Server) track(c net.Conn, add bool) {
	s.connsMu.Lock()
	if add {
		s.active[c] = struct{}{}
	} else {
		delete(s.active, c)
	}
	s.connsMu.Unlock()
}

// handle serves one call per connection: challenge out, request in, response out.
func (s *Server) handle(conn net.Conn) {
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(2 * s.ttl))
	log := s.log.With("conn_id", uuid.NewString(), "remote", conn.RemoteAddr().String())

	ch, err := s.pow.NewChallenge()
	if err != nil {
		log.Error("challenge create failed", "err", err)
		return
	}
	bw := bufio.NewWriter(conn)
	br := bufio.NewReaderSize(conn, 4096)

	if err := writeLine(bw, ch); err != nil {
		log.Error("challenge write failed", "err", err)
		return
	}
	log.Debug("challenge issued", "expires", ch.Expires, "difficulty", ch.Difficulty)

	line, err := readLine(br)
	if err != nil {
		log.Debug("read request failed", "err", err)
		if errors.Is(err, errLineTooLong) {
			s.reply(log, bw, "", time.Now(), nil, fmt.Errorf("%w: request exceeds %d bytes", entity.ErrBadRequest, maxRequestBytes))
		}
		return
	}
	started := time.Now()

	var req entity.Request
	if err := json.Unmarshal(line, &req); err != nil {
		s.reply(log, bw, "", started, nil, fmt.Errorf("%w: invalid request json", entity.ErrBadRequest))
		return
	}
	if err := s.pow.Verify(ch, entity.Solution{Nonce: req.Nonce}); err != nil {
		s.reply(log, bw, req.Method, started, nil, err)
		return
	}

	result, err := s.exec.Execute(context.WithoutCancel(s.ctx), ch, req)
	s.reply(log, bw, req.Method, started, result, err)
}

func (s *Server) reply(log *slog.Logger, bw *bufio.Writer, method string, started time.Time, result any, err error) {
	resp := entity.Response{OK: err == nil}
	if err != nil {
		resp.Code = entity.ErrorCode(err)
		resp.Error = err.Error()
		if resp.Code == "INTERNAL" {
			log.Error("call failed", "method", method, "err", err)
			resp.Error = "internal error"
		} else {
			log.Debug("call rejected", "method", method, "code", resp.Code, "err", err)
		}
	} else if result != nil {
		raw, merr := json.Marshal(result)
		if merr != nil {
			log.Error("result marshal failed", "method", method, "err", merr)
			resp = entity.Response{Code: "INTERNAL", Error: "internal error"}
		} else {
			resp.Result = raw
		}
	}
	if s.rec != nil {
		code := resp.Code
		if code == "" {
			code = "OK"
		}
		label := method
		if !entity.IsKnownMethod(label) {
			label = "unknown"
		}
		s.rec.ObserveCall(label, code, time.Since(started))
	}
	if werr := writeLine(bw, resp); werr != nil {
		log.Debug("write response failed", "err", werr)
		return
	}
	if resp.OK {
		log.Info("call served", "method", method)
	}
}

var errLineTooLong = errors.New("line too long")

func readLine(br *bufio.Reader) ([]byte, error) {
	var line []byte
	for {
		chunk, isPrefix, err := br.ReadLine()
		if err != nil {
			return nil, err
		}
		line = append(line, chunk...)
		if len(line) > maxRequestBytes {
			return nil, errLineTooLong
		}
		if !isPrefix {
			return line, nil
		}
	}
}

func writeLine(bw *bufio.Writer, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if _, err := bw.Write(append(payload, '\n')); err != nil {
		return err
	}
	return bw.Flush()
}
