package main

import (
	"errors"
	"fmt"
	"strconv"
)

const (
	roleSender   = "Sender"
	roleReceiver = "Receiver"
)

var errUsage = errors.New("usage: sdt [flags] Sender|Receiver <file> <port>")

type command struct {
	role string
	path string
	port uint16
}

func parseArgs(args []string) (command, error) {
	if len(args) != 3 {
		return command{}, errUsage
	}
	cmd := command{role: args[0], path: args[1]}
	if cmd.role != roleSender && cmd.role != roleReceiver {
		return command{}, errUsage
	}
	if cmd.path == "" {
		return command{}, errUsage
	}
	port, err := strconv.ParseUint(args[2], 10, 16)
	if err != nil || port == 0 {
		return command{}, fmt.Errorf("%w: invalid port %q", errUsage, args[2])
	}
	cmd.port = uint16(port)
	return cmd, nil
}
