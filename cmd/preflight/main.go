// cmd/preflight/main.go
package main

import (
	"fmt"
	"os"
	"strings"
)

// Sanity-checks the environment before wiring pingwatch into a scheduler.
func main() {
	fail := func(msg string) {
		fmt.Fprintln(os.Stderr, "✖", msg)
		os.Exit(1)
	}
	warn := func(msg string) { fmt.Fprintln(os.Stderr, "⚠", msg) }
	ok := func(msg string) { fmt.Println("✔", msg) }

	slack := strings.TrimSpace(os.Getenv("NOTIFY_SLACK_WEBHOOK"))
	brokers := strings.TrimSpace(os.Getenv("NOTIFY_KAFKA_BROKERS"))
	topic := strings.TrimSpace(os.Getenv("NOTIFY_KAFKA_TOPIC"))
	srcFile := strings.TrimSpace(os.Getenv("SOURCE_FILE"))
	srcURL := strings.TrimSpace(os.Getenv("SOURCE_URL"))
	backend := strings.TrimSpace(os.Getenv("FLAGS_BACKEND"))
	dsn := strings.TrimSpace(os.Getenv("FLAGS_DATABASE_URL"))

	if slack == "" && (brokers == "" || topic == "") {
		fail("no notification destination: set NOTIFY_SLACK_WEBHOOK or NOTIFY_KAFKA_BROKERS + NOTIFY_KAFKA_TOPIC (runs will return 500).")
	}
	if slack != "" {
		ok("slack webhook present")
	}
	if brokers != "" && topic != "" {
		ok("kafka destination present (" + topic + ")")
	} else if brokers != "" || topic != "" {
		warn("kafka half-configured; both NOTIFY_KAFKA_BROKERS and NOTIFY_KAFKA_TOPIC are needed.")
	}

	switch {
	case srcFile != "":
		if _, err := os.Stat(srcFile); err != nil {
			warn("SOURCE_FILE=" + srcFile + " is not readable: " + err.Error())
		} else {
			ok("SOURCE_FILE=" + srcFile)
		}
	case srcURL != "":
		ok("SOURCE_URL=" + srcURL)
	default:
		warn("no SOURCE_FILE/SOURCE_URL set; default urls.json will be used.")
	}

	switch backend {
	case "", "fs", "memory":
		ok("flags backend: " + firstNonEmpty(backend, "fs (default)"))
	case "postgres":
		if dsn == "" {
			fail("FLAGS_BACKEND=postgres requires FLAGS_DATABASE_URL.")
		}
		if !strings.HasPrefix(dsn, "postgres://") && !strings.HasPrefix(dsn, "postgresql://") {
			warn("FLAGS_DATABASE_URL does not look like a postgres DSN.")
		}
		ok("flags backend: postgres")
	default:
		fail("unknown FLAGS_BACKEND " + backend + " (want fs, memory or postgres).")
	}
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}
