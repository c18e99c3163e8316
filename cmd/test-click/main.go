// Command test-click is a manual test for click injection.
// It waits 3 seconds, then clicks at the current cursor position.
// Hover over something harmless before the countdown finishes.
//
// Usage:
//
//	go run ./cmd/test-click [--rate 10] [--count 20]
package main

import (
	"flag"
	"fmt"
	"time"

	"github.com/1634-5e/click/internal/config"
	"github.com/1634-5e/click/internal/inject"
)

func main() {
	rate := flag.Int("rate", 10, "clicks per second (1-100)")
	count := flag.Int("count", 20, "number of clicks")
	flag.Parse()

	r := config.Rate(*rate)
	if !r.Valid() {
		fmt.Printf("Error: rate must be in [%d, %d]\n", config.MinRate, config.MaxRate)
		return
	}

	fmt.Printf("Will click %d times at %d/s in 3 seconds...\n", *count, r)
	fmt.Println("Move the cursor now!")

	for i := 3; i > 0; i-- {
		fmt.Printf("%d...\n", i)
		time.Sleep(time.Second)
	}

	inj := inject.NewMouseInjector()
	start := time.Now()
	failed := 0
	for i := 0; i < *count; i++ {
		if err := inj.LeftClick(); err != nil {
			fmt.Printf("Error: %v\n", err)
			failed++
		}
		time.Sleep(r.Period())
	}

	fmt.Printf("\nDone! %d clicks (%d failed) in %s\n", *count, failed, time.Since(start).Round(time.Millisecond))
}
