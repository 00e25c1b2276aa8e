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
	"net"
	"os"
)

/*
removeStaleSocket clears a socket file left behind by a killed prior
run, so Listen can rebind the same path. A live socket (one that
accepts a connection) is left alone for bind() to reject; on any dial
failure the path is removed, whether it is a dead socket or a plain
file.
*/
func removeStaleSocket(path string) error {
	conn, err := net.Dial("unix", path)
	if err == nil {
		conn.Close()
		return nil
	}
	return os.Remove(path)
}
