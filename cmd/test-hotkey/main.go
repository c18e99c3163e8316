// Command test-hotkey is a manual test for the global hotkey registrar.
// Run it, then press (and hold) the key to see press edges.
// Press Ctrl+C to exit.
//
// Usage:
//
//	go run ./cmd/test-hotkey [--key F5]
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/1634-5e/click/internal/hotkey"
	"github.com/1634-5e/click/internal/keys"
	"github.com/1634-5e/click/internal/session"
)

func main() {
	keyName := flag.String("key", "F5", "key to listen for, e.g. F5, A, Num1, Escape")
	flag.Parse()

	key, err := keys.Parse(*keyName)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(2)
	}

	registrar := hotkey.NewRegistrar(hotkey.NewGohookSource())
	defer registrar.Close()

	state := session.New()
	presses := 0
	err = registrar.Install(key, func() {
		presses++
		status, gen := state.Toggle()
		fmt.Printf("press #%d -> %s (session %d)\n", presses, status, gen)
	})
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Listening for %s. Holding the key should print one line.\n", key)
	fmt.Println("Press Ctrl+C to exit.")

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	fmt.Println("\nShutting down...")
	starts, stops := state.Transitions()
	fmt.Printf("%d starts, %d stops\n", starts, stops)
}
