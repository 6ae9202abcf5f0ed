package client

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/dayanaadylkhanova/crossword/internal/entity"
	"github.com/dayanaadylkhanova/crossword/internal/service"
	"github.com/dayanaadylkhanova/crossword/pkg/keys"
)

// CallError is a rejection reported by the server.
type CallError struct {
	Code    string
	Message string
}

func (e *CallError) Error() string { return e.Code + ": " + e.Message }

// Unwrap exposes the matching sentinel so callers can use errors.Is.
func (e *CallError) Unwrap() error { return entity.ErrorFromCode(e.Code) }

type Client struct {
	addr    string
	timeout time.Duration
}

func New(addr string, timeout time.Duration) *Client {
	return &Client{addr: addr, timeout: timeout}
}

// Call runs one method on a fresh connection. Mutating methods need signer;
// reads pass nil.
func (c *Client) Call(ctx context.Context, signer *keys.KeyPair, method string, params any, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	conn, err := (&net.Dialer{}).DialContext(ctx, "tcp", c.addr)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close()
	if dl, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(dl)
	}

	br := bufio.NewReader(conn)
	bw := bufio.NewWriter(conn)

	line, err := br.ReadString('\n')
	if err != nil {
		return fmt.Errorf("read challenge: %w", err)
	}
	var ch entity.Challenge
	if err := json.Unmarshal([]byte(strings.TrimSpace(line)), &ch); err != nil {
		return fmt.Errorf("unmarshal challenge: %w", err)
	}

	nonce, err := service.SolveChallenge(ctx, ch)
	if err != nil {
		return fmt.Errorf("solve challenge: %w", err)
	}

	req := entity.Request{Nonce: nonce, Method: method}
	if params != nil {
		if req.Params, err = json.Marshal(params); err != nil {
			return fmt.Errorf("marshal params: %w", err)
		}
	}
	if signer != nil {
		signer.SignRequest(ch, &req)
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	if _, err := bw.Write(append(payload, '\n')); err != nil {
		return fmt.Errorf("write request: %w", err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}

	reply, err := br.ReadString('\n')
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	var resp entity.Response
	if err := json.Unmarshal([]byte(strings.TrimSpace(reply)), &resp); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	if !resp.OK {
		return &CallError{Code: resp.Code, Message: resp.Error}
	}
	if out == nil || len(resp.Result) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Result, out); err != nil {
		return fmt.Errorf("unmarshal result: %w", err)
	}
	return nil
}

// IsRejected reports whether err came back from the server rather than the transport.
func IsRejected(err error) bool {
	var ce *CallError
	return errors.As(err, &ce)
}
