// HydroWire - Hydrographic Queries and River Network Analytics
// Copyright 2026 HydroWire contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hydrowire/hydrowire

package database

import (
	"context"
	"fmt"
	"net"
	"time"

	"golang.org/x/crypto/ssh"

	"github.com/hydrowire/hydrowire/internal/config"
	"github.com/hydrowire/hydrowire/internal/logging"
)

// tunnel forwards store connections through an SSH hop. The store host
// in the DSN is resolved from the hop's network, not from here.
type tunnel struct {
	client *ssh.Client
}

func dialTunnel(cfg config.DatabaseConfig) (*tunnel, error) {
	sshCfg := &ssh.ClientConfig{
		User: cfg.SSHUser,
		Auth: []ssh.AuthMethod{ssh.Password(cfg.SSHPassword)},
		// The hop is the project's own gateway on a private network;
		// its host key is not pinned.
		HostKeyCallback: ssh.InsecureIgnoreHostKey(), //nolint:gosec
		Timeout:         15 * time.Second,
	}

	addr := net.JoinHostPort(cfg.SSHHost, fmt.Sprintf("%d", cfg.SSHPort))
	client, err := ssh.Dial("tcp", addr, sshCfg)
	if err != nil {
		return nil, fmt.Errorf("cannot open ssh tunnel to %s: %w", addr, err)
	}

	logging.Info().Str("hop", addr).Msg("ssh tunnel established")
	return &tunnel{client: client}, nil
}

// dial satisfies pgconn's DialFunc. The ssh client does not take a
// context; the pool's connect timeout still bounds the attempt.
func (t *tunnel) dial(_ context.Context, network, addr string) (net.Conn, error) {
	conn, err := t.client.Dial(network, addr)
	if err != nil {
		return nil, fmt.Errorf("tunnel dial %s: %w", addr, err)
	}
	return conn, nil
}

func (t *tunnel) close() error {
	return t.client.Close()
}
