// Command dnsd is an authoritative DNS server with forwarding fallback and
// response caching. It loads a zone catalog from a TOML file, answers
// queries it can from that catalog, and forwards everything else to a
// configured list of upstream resolvers.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/fenwick-dns/dnsd/internal/admin"
	"github.com/fenwick-dns/dnsd/internal/cache"
	"github.com/fenwick-dns/dnsd/internal/catalog"
	"github.com/fenwick-dns/dnsd/internal/logging"
	"github.com/fenwick-dns/dnsd/internal/server"
)

const (
	defaultHost      = "0.0.0.0"
	defaultPort      = 53
	defaultCacheSize = 10000
	adminAddr        = "127.0.0.1:8053"
)

// upstreamList collects repeated --forward flag occurrences into an
// ordered slice, preserving the order upstreams are tried in.
type upstreamList []string

func (u *upstreamList) String() string { return strings.Join(*u, ",") }
func (u *upstreamList) Set(v string) error {
	*u = append(*u, v)
	return nil
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

type cliFlags struct {
	host      string
	port      int
	upstreams upstreamList
	debug     bool
}

func parseFlags(args []string) (cliFlags, string, error) {
	fs := flag.NewFlagSet("dnsd", flag.ContinueOnError)

	var f cliFlags
	fs.StringVar(&f.host, "host", defaultHost, "IPv4 address to bind")
	fs.StringVar(&f.host, "h", defaultHost, "IPv4 address to bind (shorthand)")
	fs.IntVar(&f.port, "port", defaultPort, "UDP port to bind")
	fs.IntVar(&f.port, "p", defaultPort, "UDP port to bind (shorthand)")
	fs.Var(&f.upstreams, "forward", "upstream resolver address; repeatable")
	fs.BoolVar(&f.debug, "debug", false, "enable debug-level logging with source location")

	if err := fs.Parse(args); err != nil {
		return cliFlags{}, "", err
	}
	if fs.NArg() != 1 {
		return cliFlags{}, "", errors.New("usage: dnsd [flags] <catalog.toml>")
	}
	return f, fs.Arg(0), nil
}

func run() error {
	flags, catalogPath, err := parseFlags(os.Args[1:])
	if err != nil {
		return err
	}

	level := "INFO"
	if flags.debug {
		level = "DEBUG"
	}
	logger := logging.Configure(logging.Config{Level: level, Structured: false, AddSource: flags.debug})

	cat, err := catalog.LoadFile(catalogPath)
	if err != nil {
		return fmt.Errorf("loading catalog: %w", err)
	}
	logger.Info("catalog loaded", "path", catalogPath, "zones", len(cat.Zones))

	c := cache.New(defaultCacheSize)
	addr := net.JoinHostPort(flags.host, strconv.Itoa(flags.port))
	srv := server.New(cat, c, flags.upstreams, logger)

	logger.Info("dnsd starting",
		"addr", addr,
		"upstreams", []string(flags.upstreams),
		"debug", flags.debug,
	)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	adminSrv := admin.New(adminAddr, logger, c, flags.upstreams)
	go func() {
		logger.Info("admin surface starting", "addr", adminAddr)
		if serveErr := adminSrv.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			logger.Warn("admin server error", "error", serveErr)
		}
	}()

	serveErr := srv.ListenAndServe(ctx, addr)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	_ = adminSrv.Shutdown(shutdownCtx)
	shutdownCancel()

	if serveErr != nil {
		return fmt.Errorf("server exited with error: %w", serveErr)
	}
	return nil
}
