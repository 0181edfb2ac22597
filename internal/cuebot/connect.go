package cuebot

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"

	"github.com/kalisp/OpenCue/internal/retry"
	"github.com/kalisp/OpenCue/pkg/cueerr"
)

// Connect returns a Proxy to the first host in opts that answers a health
// check. Transient failures are retried per opts.Retry before failing over
// to the next host. If no host answers, the returned error is a
// *cueerr.ProxyCreationError whose cause lists each host's failure.
func Connect(ctx context.Context, opts Options) (*Proxy, error) {
	opts = opts.withDefaults()

	hosts := opts.Hosts
	if len(hosts) == 0 {
		return nil, cueerr.ProxyCreationErrorf("no cuebot hosts configured for facility %q", opts.Facility)
	}
	opts.warnPlaintextToken()
	if opts.Shuffle {
		hosts = append([]string(nil), hosts...)
		rand.Shuffle(len(hosts), func(i, j int) { hosts[i], hosts[j] = hosts[j], hosts[i] })
	}

	var merr *multierror.Error
	failed := ""
	for _, host := range hosts {
		if err := ctx.Err(); err != nil {
			merr = multierror.Append(merr, err)
			break
		}

		addr, err := HostAddr(host, opts.Port)
		if err != nil {
			opts.Logger.Warn("skipping invalid cuebot host", "host", host, "err", err)
			merr = multierror.Append(merr, err)
			failed = host
			continue
		}

		proxy, err := dialHost(ctx, addr, opts)
		if err == nil {
			opts.Logger.Info("connected to cuebot", "host", addr, "facility", opts.Facility)
			return proxy, nil
		}

		opts.Logger.Warn("cuebot host unreachable", "host", addr, "err", err)
		merr = multierror.Append(merr, fmt.Errorf("%s: %w", addr, err))
		failed = addr
	}

	merr.ErrorFormat = joinErrors
	if len(merr.Errors) != 1 {
		failed = ""
	}
	return nil, cueerr.WrapProxyCreation(merr.ErrorOrNil(), failed,
		fmt.Sprintf("unable to reach any cuebot host for facility %q", opts.Facility))
}

// dialHost creates a proxy for addr and confirms it with a health check,
// retrying transient failures.
func dialHost(ctx context.Context, addr string, opts Options) (*Proxy, error) {
	var proxy *Proxy
	attempt := 0
	rc := opts.Retry
	rc.OnRetry = func(n int, err error, delay time.Duration) {
		opts.Logger.Debug("retrying cuebot host", "host", addr, "attempt", n, "delay", delay, "err", err)
	}
	err := retry.Do(ctx, rc, retry.IsRetryable, func() error {
		attempt++
		started := time.Now()

		p, err := NewProxy(addr, opts)
		if err == nil {
			err = pingWithTimeout(ctx, p, opts.DialTimeout)
			if err != nil {
				_ = p.conn.Close()
			}
		}

		opts.Logger.Debug("cuebot connection attempt",
			"host", addr, "attempt", attempt, "duration", time.Since(started), "err", err)
		record(ctx, opts, Attempt{
			Facility: opts.Facility,
			Host:     addr,
			Started:  started,
			Duration: time.Since(started),
			Err:      attemptError(addr, err),
		})

		if err != nil {
			return err
		}
		proxy = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return proxy, nil
}

// attemptError classifies a failed attempt as a proxy creation failure for
// addr. Errors that are already a CueError keep their kind.
func attemptError(addr string, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := cueerr.As(err); ok {
		return err
	}
	return cueerr.WrapProxyCreation(err, addr, "health check "+addr)
}

func pingWithTimeout(ctx context.Context, p *Proxy, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return p.check(ctx)
}

func record(ctx context.Context, opts Options, a Attempt) {
	if opts.Recorder == nil {
		return
	}
	if err := opts.Recorder.RecordAttempt(context.WithoutCancel(ctx), a); err != nil {
		opts.Logger.Warn("failed to record cuebot connection attempt", "host", a.Host, "err", err)
	}
}

func joinErrors(errs []error) string {
	parts := make([]string, len(errs))
	for i, err := range errs {
		parts[i] = err.Error()
	}
	return strings.Join(parts, "; ")
}

// ProbeResult is the outcome of probing one host.
type ProbeResult struct {
	Host    string
	Latency time.Duration
	Err     error
}

// ProbeAll checks every host in opts concurrently and reports each one.
// Results are in the order of opts.Hosts. The proxies are closed before
// returning. The error is non-nil only when no hosts are configured.
func ProbeAll(ctx context.Context, opts Options) ([]ProbeResult, error) {
	opts = opts.withDefaults()
	if len(opts.Hosts) == 0 {
		return nil, cueerr.ProxyCreationErrorf("no cuebot hosts configured for facility %q", opts.Facility)
	}
	opts.warnPlaintextToken()

	results := make([]ProbeResult, len(opts.Hosts))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.MaxConcurrentProbes)

	for i, host := range opts.Hosts {
		g.Go(func() error {
			results[i] = probe(gctx, host, opts)
			return nil
		})
	}
	_ = g.Wait()

	return results, nil
}

func probe(ctx context.Context, host string, opts Options) ProbeResult {
	addr, err := HostAddr(host, opts.Port)
	if err != nil {
		return ProbeResult{Host: host, Err: cueerr.WrapProxyCreation(err, host, "invalid cuebot host")}
	}

	started := time.Now()
	proxy, err := dialHost(ctx, addr, opts)
	latency := time.Since(started)
	if err != nil {
		return ProbeResult{Host: addr, Latency: latency, Err: cueerr.WrapProxyCreation(err, addr, "unable to reach "+addr)}
	}
	if err := proxy.Close(); err != nil {
		opts.Logger.Debug("closing probe connection", "host", addr, "err", err)
	}
	return ProbeResult{Host: addr, Latency: latency}
}
