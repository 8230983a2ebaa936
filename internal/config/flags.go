package config

import (
	"errors"
	"flag"
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

// ParseFlags parses all configuration flags.
//
// Flags:
//
//	-a server address in format [host]:[port]
//	-d database DSN
//	-c/-config json file path with configs
//	-attempt-threshold failed logins before lockout
//	-attempt-window sliding failure window (e.g., "15m")
//	-lockout-duration automatic lockout length (e.g., "30m")
//	-session-ttl session token lifetime (e.g., "12h")
//	-reset-ttl reset token lifetime (e.g., "15m")
//	-notifier-url out-of-band gateway endpoint
//	-request-timeout request timeout (e.g., "30s", "1m")
//	-sweep-interval expiry sweeper interval (e.g., "5m")
func ParseFlags() *StructuredConfig {
	var serverAddress NetAddress
	var databaseDSN string
	var jsonConfigPath string
	var attemptThreshold int
	var attemptWindow time.Duration
	var lockoutDuration time.Duration
	var sessionTTL time.Duration
	var resetTTL time.Duration
	var notifierURL string
	var requestTimeout time.Duration
	var sweepInterval time.Duration

	flag.Var(&serverAddress, "a", "Net address host:port")
	flag.StringVar(&databaseDSN, "d", "", "Database DSN")
	flag.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	flag.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	flag.IntVar(&attemptThreshold, "attempt-threshold", 0, "Failed logins before lockout")
	flag.DurationVar(&attemptWindow, "attempt-window", 0, "Failure counting window (e.g., 15m)")
	flag.DurationVar(&lockoutDuration, "lockout-duration", 0, "Automatic lockout length (e.g., 30m)")
	flag.DurationVar(&sessionTTL, "session-ttl", 0, "Session token lifetime (e.g., 12h)")
	flag.DurationVar(&resetTTL, "reset-ttl", 0, "Reset token lifetime (e.g., 15m)")
	flag.StringVar(&notifierURL, "notifier-url", "", "Out-of-band gateway endpoint")
	flag.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")
	flag.DurationVar(&sweepInterval, "sweep-interval", 0, "Expiry sweeper interval (e.g., 5m)")

	flag.Parse()

	return &StructuredConfig{
		Security: Security{
			LoginAttemptThreshold: attemptThreshold,
			LoginAttemptWindow:    attemptWindow,
			LockoutDuration:       lockoutDuration,
			SessionTTL:            sessionTTL,
			ResetTokenTTL:         resetTTL,
		},
		Storage: Storage{
			DB: DB{
				DSN: databaseDSN,
			},
		},
		Server: Server{
			HTTPAddress:    serverAddress.String(),
			RequestTimeout: requestTimeout,
		},
		Notifier: Notifier{
			GatewayURL: notifierURL,
		},
		Workers: Workers{
			SweepInterval: sweepInterval,
		},
		JSONFilePath: jsonConfigPath,
	}
}

// String returns a canonical host:port string for a NetAddress.
// If neither Host nor Port are set, it returns an empty string.
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
