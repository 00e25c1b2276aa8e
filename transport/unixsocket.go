/*
 * coredbg
 *
 * Copyright 2024 The coredbg authors. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

package transport

import (
	"bufio"
	"io"
	"net"
	"sync"

	"github.com/clruntim/coredbg/dbgerr"
)

/*
UnixSocketListener accepts a single client connection on a unix-domain
socket and hands back a Transport wrapping it. A real named pipe is a
1:1 client/agent channel, which this mirrors: one listener, one accepted
connection, reused for the lifetime of the debug session.
*/
type UnixSocketListener struct {
	ln net.Listener
}

/*
Listen binds a unix-domain socket at path, removing any stale socket
file left over from a previous run first.
*/
func Listen(path string) (*UnixSocketListener, error) {
	_ = removeStaleSocket(path)

	ln, err := net.Listen("unix", path)
	if err != nil {
		return nil, dbgerr.Wrap(dbgerr.KindIoError, "transport.Listen", err)
	}
	return &UnixSocketListener{ln: ln}, nil
}

/*
Accept blocks for the single client connection and wraps it as a
Transport.
*/
func (l *UnixSocketListener) Accept() (Transport, error) {
	conn, err := l.ln.Accept()
	if err != nil {
		return nil, dbgerr.Wrap(dbgerr.KindIoError, "transport.Accept", err)
	}
	return newConnTransport(conn), nil
}

func (l *UnixSocketListener) Close() error {
	return l.ln.Close()
}

/*
Dial connects to an agent already listening at path, for clients and
tests driving the agent end-to-end without a real debuggee.
*/
func Dial(path string) (Transport, error) {
	conn, err := net.Dial("unix", path)
	if err != nil {
		return nil, dbgerr.Wrap(dbgerr.KindIoError, "transport.Dial", err)
	}
	return newConnTransport(conn), nil
}

type connTransport struct {
	conn   net.Conn
	reader *bufio.Reader
	mu     sync.Mutex
}

func newConnTransport(conn net.Conn) *connTransport {
	return &connTransport{conn: conn, reader: bufio.NewReader(conn)}
}

func (c *connTransport) Read() ([]byte, error) {
	line, err := c.reader.ReadBytes('\n')
	if err != nil {
		if err == io.EOF && len(line) > 0 {
			return trimNewline(line), nil
		}
		return nil, dbgerr.Wrap(dbgerr.KindIoError, "transport.Read", err)
	}
	return trimNewline(line), nil
}

func (c *connTransport) Write(line []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(line) == 0 || line[len(line)-1] != '\n' {
		line = append(line, '\n')
	}
	if _, err := c.conn.Write(line); err != nil {
		return dbgerr.Wrap(dbgerr.KindIoError, "transport.Write", err)
	}
	return nil
}

func (c *connTransport) Close() error {
	return c.conn.Close()
}

func trimNewline(b []byte) []byte {
	if n := len(b); n > 0 && b[n-1] == '\n' {
		b = b[:n-1]
	}
	if n := len(b); n > 0 && b[n-1] == '\r' {
		b = b[:n-1]
	}
	return b
}
