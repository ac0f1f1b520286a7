package probe

import (
	"context"
	"errors"
	"net"
	"net/url"
	"strings"
	"time"
)

// DNS classes attached to transport-level probe failures so a report can
// tell "the name is gone" apart from "the host is unreachable".
const (
	ClassResolves = "RESOLVES"
	ClassNXDomain = "NXDOMAIN"
	ClassNoRecord = "NO_A_RECORD"
	ClassServfail = "SERVFAIL_or_TIMEOUT"
	ClassInvalid  = "INVALID_NAME"
)

var dnsTimeout = 3 * time.Second

// Diagnose resolves the host of a target URL and classifies the outcome.
func Diagnose(target string) string {
	host := extractHost(target)
	if host == "" {
		return ClassInvalid
	}

	ctx, cancel := context.WithTimeout(context.Background(), dnsTimeout)
	defer cancel()
	r := &net.Resolver{} // OS resolver

	ips, err := r.LookupIP(ctx, "ip", host)
	if err == nil && len(ips) > 0 {
		return ClassResolves
	}

	class := ""
	if err != nil {
		var de *net.DNSError
		if errors.As(err, &de) {
			if de.IsNotFound {
				class = ClassNXDomain
			} else if de.IsTemporary || de.Timeout() {
				class = ClassServfail
			}
		}
	}

	// a delegated zone without an A record is not NXDOMAIN
	if ns, nerr := r.LookupNS(ctx, host); nerr == nil && len(ns) > 0 {
		if class == ClassNXDomain || class == "" {
			return ClassNoRecord
		}
	}

	if class == "" {
		class = ClassNXDomain
	}
	return class
}

func extractHost(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Hostname() == "" {
		host, _, _ := strings.Cut(raw, "/")
		return host
	}
	return u.Hostname()
}
