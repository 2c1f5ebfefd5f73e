// Package serve runs the interactive playground server.
package serve

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"time"
)

const shutdownTimeout = 5 * time.Second

// displayURL returns the browsable URL for a listen address.
func displayURL(addr string, port int) string {
	host := addr
	if host == "" || host == "0.0.0.0" {
		host = "localhost"
	}
	return fmt.Sprintf("http://%s:%d", host, port)
}

// openBrowser tries to open the given URL in the default browser.
// Errors are silently ignored.
func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		return
	}
	_ = cmd.Start()
}

// listenAndServe serves handler until SIGINT, then shuts down gracefully.
func listenAndServe(handler http.Handler, addr string, port int, label string) error {
	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", addr, port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)

	go func() {
		<-sigCh
		fmt.Printf("\nShutting down %s...\n", label)
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		server.Shutdown(ctx)
	}()

	url := displayURL(addr, port)
	fmt.Printf("%s running at %s\n", label, url)
	openBrowser(url)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}
