package config

import (
	"errors"
	"flag"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"
)

// NetAddress holds structured network address data for host and port.
// It implements the flag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// ParseFlags parses configuration flags from args (without the program
// name).
//
// Flags:
//
//	-a server address in format [host]:[port]
//	-grpc-address grpc health server address in format [host]:[port]
//	-db-driver database driver ("pgx" or "sqlite3")
//	-d database DSN
//	-c/-config json file path with configs
//	-app-version application version
//	-log-level log level (debug, info, warn, error)
//	-plugin plugin name attached to dispatch spans
//	-request-timeout request read timeout (e.g., "30s", "1m")
//	-shutdown-timeout graceful shutdown timeout (e.g., "10s")
//	-telemetry-disabled turn route usage counters off
//	-metrics-namespace prometheus metrics namespace
//	-trace-sampler span sampler name
//	-trace-sampler-arg span sampling ratio
//	-profiling allow "_profile=inspect" CPU profiles
//	-profiling-dir directory for CPU profiles
//	-server-url server address used by the client
func ParseFlags(args []string) (*StructuredConfig, error) {
	fs := flag.NewFlagSet("route-keeper", flag.ContinueOnError)

	var serverAddress, grpcServerAddress NetAddress
	var databaseDriver, databaseDSN string
	var jsonConfigPath string
	var version, logLevel, pluginName string
	var requestTimeout, shutdownTimeout time.Duration
	var telemetryDisabled bool
	var metricsNamespace, traceSampler, traceSamplerArg string
	var profilingEnabled bool
	var profilingDir string
	var serverURL string

	fs.Var(&serverAddress, "a", "Net address host:port")
	fs.Var(&grpcServerAddress, "grpc-address", "Net grpc health server address host:port")
	fs.StringVar(&databaseDriver, "db-driver", "", "Database driver (pgx, sqlite3)")
	fs.StringVar(&databaseDSN, "d", "", "Database DSN")
	fs.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	fs.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	fs.StringVar(&version, "app-version", "", "Application version")
	fs.StringVar(&logLevel, "log-level", "", "Log level")
	fs.StringVar(&pluginName, "plugin", "", "Plugin name of dispatch spans")
	fs.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")
	fs.DurationVar(&shutdownTimeout, "shutdown-timeout", 0, "Shutdown timeout (e.g., 10s)")
	fs.BoolVar(&telemetryDisabled, "telemetry-disabled", false, "Disable route usage counters")
	fs.StringVar(&metricsNamespace, "metrics-namespace", "", "Prometheus metrics namespace")
	fs.StringVar(&traceSampler, "trace-sampler", "", "Span sampler (always_on, always_off, traceidratio, parentbased)")
	fs.StringVar(&traceSamplerArg, "trace-sampler-arg", "", "Span sampling ratio")
	fs.BoolVar(&profilingEnabled, "profiling", false, "Allow _profile=inspect CPU profiles")
	fs.StringVar(&profilingDir, "profiling-dir", "", "CPU profiles directory")
	fs.StringVar(&serverURL, "server-url", "", "Server address used by the client")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("error parsing flags: %w", err)
	}

	var positional []string
	if fs.NArg() > 0 {
		positional = fs.Args()
	}

	return &StructuredConfig{
		App: App{
			Version:    version,
			LogLevel:   logLevel,
			PluginName: pluginName,
		},
		Storage: Storage{
			DB: DB{
				Driver: databaseDriver,
				DSN:    databaseDSN,
			},
		},
		Server: Server{
			HTTPAddress:     serverAddress.String(),
			GRPCAddress:     grpcServerAddress.String(),
			RequestTimeout:  requestTimeout,
			ShutdownTimeout: shutdownTimeout,
		},
		Telemetry: Telemetry{
			Disabled:        telemetryDisabled,
			Namespace:       metricsNamespace,
			TraceSampler:    traceSampler,
			TraceSamplerArg: traceSamplerArg,
		},
		Profiling: Profiling{
			Enabled: profilingEnabled,
			Dir:     profilingDir,
		},
		Adapter: Adapter{
			HTTPAddress:    serverURL,
			RequestTimeout: requestTimeout,
		},
		JSONFilePath: jsonConfigPath,
		Args:         positional,
	}, nil
}

// String returns a canonical host:port string for a NetAddress.
// If neither Host nor Port are set, it returns the default server address.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses the input string of form host:port and populates the NetAddress.
// It validates the port range, checks IP correctness unless host is "localhost",
// and returns an error if the format or values are invalid.
func (a *NetAddress) Set(s string) error {
	hostAndPort := strings.Split(s, ":")
	if len(hostAndPort) != 2 {
		return errors.New("need address in a form `host:port`")
	}

	host := hostAndPort[0]
	port, err := strconv.Atoi(hostAndPort[1])
	if err != nil {
		return err
	}

	if port < 1 {
		return errors.New("port number is a positive integer")
	}

	if host != "localhost" {
		ip := net.ParseIP(hostAndPort[0])
		if ip == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port
	return nil
}
