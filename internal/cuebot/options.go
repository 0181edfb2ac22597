package cuebot

import (
	"context"
	"log/slog"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/kalisp/OpenCue/internal/auth"
	"github.com/kalisp/OpenCue/internal/config"
	"github.com/kalisp/OpenCue/internal/logging"
	"github.com/kalisp/OpenCue/internal/retry"
	"github.com/kalisp/OpenCue/pkg/cueerr"
)

// Options controls how proxies are created.
type Options struct {
	// Facility is informational; it is reported in errors, logs and
	// recorded attempts.
	Facility string

	// Hosts are tried in order. Entries without a port get Port.
	Hosts []string
	Port  int

	// DialTimeout bounds a single attempt against one host.
	DialTimeout time.Duration

	// Retry controls attempts per host before moving to the next one.
	Retry retry.Config

	// Shuffle randomizes host order, spreading clients across hosts.
	Shuffle bool

	// Token, when set, is sent as a bearer token with every RPC.
	Token string

	// TransportCredentials defaults to an insecure (plaintext) transport.
	TransportCredentials credentials.TransportCredentials

	// HealthService is the service name passed to the health check. Empty
	// checks the server as a whole.
	HealthService string

	// DialOptions are appended to the options built from the fields above.
	DialOptions []grpc.DialOption

	// MaxConcurrentProbes bounds ProbeAll.
	MaxConcurrentProbes int

	Logger   *slog.Logger
	Recorder Recorder
}

// Attempt describes one try at reaching a host.
type Attempt struct {
	Facility string
	Host     string
	Started  time.Time
	Duration time.Duration
	// Err is nil for a successful attempt. Otherwise it is a
	// *cueerr.ProxyCreationError naming Host.
	Err error
}

// Recorder receives every connection attempt.
type Recorder interface {
	RecordAttempt(ctx context.Context, a Attempt) error
}

func (o Options) withDefaults() Options {
	if o.Port <= 0 {
		o.Port = config.DefaultCuebotPort
	}
	if o.DialTimeout <= 0 {
		o.DialTimeout = config.DefaultConnectTimeout
	}
	if o.Retry.MaxAttempts <= 0 {
		o.Retry = retry.DefaultConfig()
	}
	if o.MaxConcurrentProbes <= 0 {
		o.MaxConcurrentProbes = 4
	}
	if o.TransportCredentials == nil {
		o.TransportCredentials = insecure.NewCredentials()
	}
	o.Logger = logging.OrDefault(o.Logger)
	return o
}

func (o Options) dialOptions() []grpc.DialOption {
	opts := []grpc.DialOption{
		grpc.WithTransportCredentials(o.TransportCredentials),
		grpc.WithUserAgent("cuego"),
	}
	if o.Token != "" {
		opts = append(opts, grpc.WithPerRPCCredentials(bearerToken{token: o.Token, secure: o.secure()}))
	}
	return append(opts, o.DialOptions...)
}

func (o Options) secure() bool {
	return o.TransportCredentials.Info().SecurityProtocol != "insecure"
}

// warnPlaintextToken logs once per Connect or ProbeAll when a token would
// travel unencrypted.
func (o Options) warnPlaintextToken() {
	if o.Token != "" && !o.secure() {
		o.Logger.Warn("sending cuebot token over an insecure connection",
			"facility", o.Facility, "hosts", len(o.Hosts))
	}
}

type bearerToken struct {
	token  string
	secure bool
}

func (b bearerToken) GetRequestMetadata(ctx context.Context, uri ...string) (map[string]string, error) {
	return map[string]string{"authorization": "Bearer " + b.token}, nil
}

func (b bearerToken) RequireTransportSecurity() bool { return b.secure }

// FromConfig builds Options for facility from the user's configuration and
// the token stored for that facility. An empty facility selects the
// configured default.
func FromConfig(cfg *config.Config, facility string, store auth.Store) (Options, error) {
	if facility == "" {
		facility = cfg.Facility()
	}

	hosts, err := cfg.HostsFor(facility)
	if err != nil {
		return Options{}, cueerr.Wrap(err, "resolve cuebot hosts")
	}

	token, err := auth.TokenOrEmpty(store, facility)
	if err != nil {
		return Options{}, cueerr.Wrap(err, "load cuebot token")
	}

	rc := retry.DefaultConfig()
	rc.MaxAttempts = cfg.Attempts()

	return Options{
		Facility:    auth.NormalizeFacility(facility),
		Hosts:       hosts,
		Port:        cfg.Port(),
		DialTimeout: cfg.Timeout(),
		Retry:       rc,
		Token:       token,
	}, nil
}
