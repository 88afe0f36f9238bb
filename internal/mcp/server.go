package mcp

import (
	"context"
	"io"

	"github.com/sourcegraph/jsonrpc2"
)

// Serve runs one MCP session over rwc until the peer disconnects or ctx is
// cancelled. Messages are newline-delimited JSON objects.
func (h *Handler) Serve(ctx context.Context, rwc io.ReadWriteCloser) error {
	conn := jsonrpc2.NewConn(ctx, jsonrpc2.NewPlainObjectStream(rwc), h.JSONRPC())

	select {
	case <-ctx.Done():
		conn.Close()
		<-conn.DisconnectNotify()
		return ctx.Err()
	case <-conn.DisconnectNotify():
		return nil
	}
}

type stdio struct {
	in  io.ReadCloser
	out io.WriteCloser
}

// Stdio joins a reader and a writer, typically os.Stdin and os.Stdout, into
// one connection.
func Stdio(in io.ReadCloser, out io.WriteCloser) io.ReadWriteCloser {
	return &stdio{in: in, out: out}
}

func (s *stdio) Read(p []byte) (int, error)  { return s.in.Read(p) }
func (s *stdio) Write(p []byte) (int, error) { return s.out.Write(p) }

func (s *stdio) Close() error {
	rerr := s.in.Close()
	werr := s.out.Close()
	if rerr != nil {
		return rerr
	}
	return werr
}
