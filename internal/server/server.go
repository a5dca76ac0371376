package server

import (
	"context"
	"crypto/tls"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/webform-cli/readwebform/internal/deadline"
	"github.com/webform-cli/readwebform/internal/protocol"
	"github.com/webform-cli/readwebform/internal/storage"
)

// Sentinel error kinds surfaced as run failures (spec.md §7).
var (
	ErrBindFailed      = errors.New("bind failed")
	ErrTLSConfigFailed = errors.New("tls config failed")
)

// Serve runs one ephemeral submission server to completion, implementing
// the sequence in spec.md §4.7: bind, optionally wrap TLS, arm the
// deadline, accept connections until either a valid submission is
// published or the deadline fires, then shut down. onReady, if non-nil,
// is called exactly once with the server's canonical URL after the
// listener is bound — this is where a caller launches a browser or
// prints a QR code, strictly after bind so neither can race the socket
// (spec.md §4.7 step 5).
func Serve(cfg RunConfig, onReady func(url string)) (Outcome, error) {
	uploadDir, err := os.MkdirTemp("", "readwebform_")
	if err != nil {
		return Outcome{}, errors.Wrap(err, "creating upload directory")
	}

	ln, err := bind(cfg.Host, cfg.Port)
	if err != nil {
		return Outcome{}, errors.Wrapf(ErrBindFailed, "%s:%d: %v", cfg.Host, cfg.Port, err)
	}

	useTLS := cfg.CertFile != "" && cfg.KeyFile != ""
	if useTLS {
		cert, err := tls.LoadX509KeyPair(cfg.CertFile, cfg.KeyFile)
		if err != nil {
			ln.Close()
			return Outcome{}, errors.Wrapf(ErrTLSConfigFailed, "%v", err)
		}
		tlsLn := tls.NewListener(newPollingListener(ln), &tls.Config{Certificates: []tls.Certificate{cert}})
		return serveOn(tlsLn, ln, cfg, uploadDir, useTLS, onReady)
	}

	return serveOn(newPollingListener(ln), ln, cfg, uploadDir, useTLS, onReady)
}

func serveOn(servingLn net.Listener, raw *net.TCPListener, cfg RunConfig, uploadDir string, useTLS bool, onReady func(url string)) (Outcome, error) {
	url := canonicalURL(cfg.Host, raw.Addr().(*net.TCPAddr).Port, cfg.EndpointPath, useTLS)
	fmt.Fprintln(os.Stderr, "\nOpen this URL in your browser:")
	fmt.Fprintf(os.Stderr, "  %s\n\n", url)

	if onReady != nil {
		onReady(url)
	}

	fs := storage.New(uploadDir)
	hctx := newHandlerContext(cfg.HTML, cfg.CSRFToken, cfg.EndpointPath, cfg.MaxFileSize, cfg.MaxTotalSize, fs, nil, cfg.Verbose)

	dl := deadline.New(secondsToDuration(cfg.TimeoutSeconds), cfg.ResetTimeoutOnError, func() {
		raw.Close()
	})
	hctx.deadline = dl
	dl.Arm()

	httpServer := &http.Server{
		Handler:      hctx,
		ReadTimeout:  protocol.ReadTimeout,
		WriteTimeout: protocol.WriteTimeout,
		IdleTimeout:  protocol.IdleTimeout,
	}
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- httpServer.Serve(servingLn)
	}()

	select {
	case <-hctx.done:
		// A submission was published: cancel the deadline, wait for the
		// success response to settle onto the socket, then force the
		// accept loop to exit by closing the listener out from under it
		// (spec.md §4.7 step 8).
		dl.Cancel()
		<-hctx.settled
		raw.Close()
		select {
		case <-serveErr:
		case <-time.After(protocol.ShutdownJoinWait):
			log.Printf("accept loop did not exit within %s of shutdown", protocol.ShutdownJoinWait)
		}
	case <-serveErr:
		// The deadline fired first and already closed the listener
		// itself (spec.md §4.5 "On fire").
	}

	if hctx.outcome.Success {
		return hctx.outcome, nil
	}
	return Outcome{Success: false}, nil
}

func secondsToDuration(seconds int) time.Duration {
	return time.Duration(seconds) * time.Second
}

func bind(host string, port int) (*net.TCPListener, error) {
	lc := listenConfig()
	ln, err := lc.Listen(context.Background(), "tcp", net.JoinHostPort(host, strconv.Itoa(port)))
	if err != nil {
		return nil, err
	}
	tcpLn, ok := ln.(*net.TCPListener)
	if !ok {
		ln.Close()
		return nil, errors.New("listener is not a TCP listener")
	}
	return tcpLn, nil
}

func canonicalURL(host string, port int, endpointPath string, useTLS bool) string {
	scheme := "http"
	if useTLS {
		scheme = "https"
	}
	urlHost := host
	if strings.Contains(host, ":") {
		urlHost = "[" + host + "]"
	}
	return fmt.Sprintf("%s://%s:%d%s", scheme, urlHost, port, endpointPath)
}
