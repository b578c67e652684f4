package platform

import (
	"bufio"
	"errors"
	"fmt"
	"hash/fnv"
	"log/slog"
	"net"
	"strings"
	"sync"
	"time"
)

// ErrAlreadyRunning indicates another instance already holds the lock.
var ErrAlreadyRunning = errors.New("instance already running")

const (
	activateCommand = "show"
	activateReply   = "ok"
	dialTimeout     = 500 * time.Millisecond
	replyTimeout    = time.Second
	requestTimeout  = 2 * time.Second
)

// InstanceGuard holds the single-instance lock and relays activation requests from later launches.
type InstanceGuard struct {
	listener   net.Listener
	address    string
	activateMu sync.Mutex
}

// AcquireSingleInstance binds a localhost port derived from appName.
// When a running instance holds it, that instance is asked to show itself and ErrAlreadyRunning is returned.
// ErrAlreadyRunning is only reported once the holder acknowledged the request; any other failure is returned wrapped.
func AcquireSingleInstance(appName string) (*InstanceGuard, error) {
	address := addressFromName(appName)
	listener, err := net.Listen("tcp", address)
	if err != nil {
		if activateErr := requestActivation(address); activateErr != nil {
			slog.Debug("activation request failed", "address", address, "error", activateErr)
			return nil, fmt.Errorf("bind instance address %s: %w", address, errors.Join(err, activateErr))
		}
		return nil, ErrAlreadyRunning
	}
	return &InstanceGuard{listener: listener, address: address}, nil
}

// Serve calls onActivate for every activation request until the guard is released.
func (guard *InstanceGuard) Serve(onActivate func()) {
	if guard == nil || guard.listener == nil {
		return
	}
	for {
		conn, err := guard.listener.Accept()
		if err != nil {
			if !errors.Is(err, net.ErrClosed) {
				slog.Warn("instance guard accept failed", "error", err)
			}
			return
		}
		go guard.handle(conn, onActivate)
	}
}

func (guard *InstanceGuard) handle(conn net.Conn, onActivate func()) {
	defer conn.Close()
	if err := conn.SetDeadline(time.Now().Add(requestTimeout)); err != nil {
		slog.Debug("activation deadline not set", "error", err)
		return
	}
	line, err := bufio.NewReader(conn).ReadString('\n')
	if err != nil || strings.TrimSpace(line) != activateCommand {
		slog.Debug("ignored instance guard request", "remote", conn.RemoteAddr().String(), "error", err)
		return
	}
	if _, err := fmt.Fprintln(conn, activateReply); err != nil {
		slog.Debug("activation reply failed", "error", err)
	}
	if onActivate != nil {
		guard.activateMu.Lock()
		defer guard.activateMu.Unlock()
		onActivate()
	}
}

// Release frees the single instance lock.
func (guard *InstanceGuard) Release() error {
	if guard == nil || guard.listener == nil {
		return nil
	}
	return guard.listener.Close()
}

// Address returns the bound address.
func (guard *InstanceGuard) Address() string {
	if guard == nil {
		return ""
	}
	return guard.address
}

func requestActivation(address string) error {
	conn, err := net.DialTimeout("tcp", address, dialTimeout)
	if err != nil {
		return fmt.Errorf("dial running instance: %w", err)
	}
	defer conn.Close()
	if err := conn.SetDeadline(time.Now().Add(replyTimeout)); err != nil {
		return fmt.Errorf("set activation deadline: %w", err)
	}
	if _, err := fmt.Fprintln(conn, activateCommand); err != nil {
		return fmt.Errorf("send activation request: %w", err)
	}
	reply, err := bufio.NewReader(conn).ReadString('\n')
	if err != nil {
		return fmt.Errorf("read activation reply: %w", err)
	}
	if strings.TrimSpace(reply) != activateReply {
		return fmt.Errorf("unexpected activation reply %q", strings.TrimSpace(reply))
	}
	return nil
}

func addressFromName(appName string) string {
	const (
		minPort = 20000
		maxPort = 39999
	)
	hash := fnv.New32a()
	_, _ = hash.Write([]byte(appName))
	rangeSize := maxPort - minPort + 1
	return fmt.Sprintf("127.0.0.1:%d", minPort+int(hash.Sum32()%uint32(rangeSize)))
}
