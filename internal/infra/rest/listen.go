package rest

import (
	"errors"
	"fmt"
	"net"
	"syscall"

	"github.com/sirupsen/logrus"
)

// Listen opens a TCP listener on port. If the port is taken it tries
// port+1 once. The port actually bound is returned.
func Listen(port int, log *logrus.Entry) (net.Listener, int, error) {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err == nil {
		return ln, port, nil
	}
	if !errors.Is(err, syscall.EADDRINUSE) {
		return nil, 0, fmt.Errorf("error listening on port %d: %w", port, err)
	}

	next := port + 1
	log.WithFields(logrus.Fields{"port": port, "fallback": next}).Warn("Port already in use, trying next port")
	ln, err = net.Listen("tcp", fmt.Sprintf(":%d", next))
	if err != nil {
		return nil, 0, fmt.Errorf("error listening on fallback port %d: %w", next, err)
	}
	return ln, next, nil
}
