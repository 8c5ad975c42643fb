// Command parking-term plays the parking lot match in a terminal.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/gdamore/tcell/v2"

	"parking-server/server/sim"
)

func main() {
	server := flag.String("server", "", "Parking server base URL for score submission (e.g. http://localhost:8080)")
	token := flag.String("token", "", "Auth token for score submission")
	seed := flag.Int64("seed", 0, "Fixed random seed (0 = random per match)")
	mute := flag.Bool("mute", false, "Start with sound off")
	logFile := flag.String("log", "", "Write logs to this file (default: discard)")
	flag.Parse()

	// The terminal belongs to tcell, so logs go to a file or nowhere
	log.SetOutput(io.Discard)
	if *logFile != "" {
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "open log: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		log.SetOutput(f)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}

	audio, err := NewAudio()
	if err != nil {
		// Non-fatal, the match plays fine in silence
		log.Printf("Audio initialization failed: %v", err)
	}
	if *mute {
		audio.ToggleMute()
	}

	submit := NewSubmitter(*server, *token)
	if submit == nil && (*server != "" || *token != "") {
		log.Printf("score submission needs both -server and -token")
	}

	a := newApp(screen, sim.DefaultConfig(), audio, submit)
	a.seed = *seed
	a.start()
	a.run()

	a.stop()
	audio.Close()
	screen.Fini()
}
