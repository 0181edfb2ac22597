// Package cuebot creates handles to Cuebot hosts.
//
// A Proxy wraps a gRPC client connection that has been confirmed live with a
// health check. Connect walks the hosts of a facility in order and returns
// the first one that answers; when none do it returns a
// *cueerr.ProxyCreationError describing every host's failure.
package cuebot

import (
	"context"
	"fmt"
	"net"
	"strconv"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"

	"github.com/kalisp/OpenCue/internal/util"
	"github.com/kalisp/OpenCue/pkg/cueerr"
)

// Proxy is a live handle to a single Cuebot host.
type Proxy struct {
	addr     string
	facility string
	service  string
	conn     *grpc.ClientConn
	health   healthpb.HealthClient
}

// NewProxy creates a Proxy for addr without contacting the host. Callers
// normally use Connect, which also verifies the host answers.
func NewProxy(addr string, opts Options) (*Proxy, error) {
	opts = opts.withDefaults()

	conn, err := grpc.NewClient("passthrough:///"+addr, opts.dialOptions()...)
	if err != nil {
		return nil, cueerr.WrapProxyCreation(err, addr, "create client for "+addr)
	}

	return &Proxy{
		addr:     addr,
		facility: opts.Facility,
		service:  opts.HealthService,
		conn:     conn,
		health:   healthpb.NewHealthClient(conn),
	}, nil
}

// Addr returns the host:port this proxy talks to.
func (p *Proxy) Addr() string { return p.addr }

// Facility returns the facility the proxy was created for.
func (p *Proxy) Facility() string { return p.facility }

// Conn returns the underlying connection for use with generated Cuebot
// service clients.
func (p *Proxy) Conn() grpc.ClientConnInterface { return p.conn }

// Ping performs a health check against the host. A host that answers but
// does not implement the health service counts as reachable.
func (p *Proxy) Ping(ctx context.Context) error {
	if err := p.check(ctx); err != nil {
		return cueerr.Wrap(err, "ping "+p.addr)
	}
	return nil
}

func (p *Proxy) check(ctx context.Context) error {
	resp, err := p.health.Check(ctx, &healthpb.HealthCheckRequest{Service: p.service})
	if err != nil {
		if status.Code(err) == codes.Unimplemented {
			return nil
		}
		return err
	}
	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		return status.Errorf(codes.Unavailable, "cuebot reports %s", resp.GetStatus())
	}
	return nil
}

// Close releases the connection.
func (p *Proxy) Close() error {
	if err := p.conn.Close(); err != nil {
		return cueerr.Wrap(err, "close "+p.addr)
	}
	return nil
}

// HostAddr validates host and appends port unless host already carries one.
func HostAddr(host string, port int) (string, error) {
	if err := util.ValidateHost(host); err != nil {
		return "", err
	}
	if _, _, err := net.SplitHostPort(host); err == nil {
		return host, nil
	}
	return net.JoinHostPort(host, strconv.Itoa(port)), nil
}

func (p *Proxy) String() string {
	return fmt.Sprintf("cuebot proxy %s (%s)", p.addr, p.facility)
}
