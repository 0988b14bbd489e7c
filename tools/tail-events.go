//go:build ignore

// Tail-events follows a formdrop server's /events WebSocket feed and
// prints one line per accepted upload. Useful when debugging a server
// or watching a drop box fill up.
//
// Usage: go run tools/tail-events.go ws://localhost:8640/events
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/gorilla/websocket"
)

// UploadEvent matches the structure broadcast by internal/server
type UploadEvent struct {
	CorrelationID string            `json:"correlation_id"`
	RemoteAddr    string            `json:"remote_addr"`
	Files         []StoredFile      `json:"files"`
	Fields        map[string]string `json:"fields"`
	ReceivedAt    time.Time         `json:"received_at"`
}

type StoredFile struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
}

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: tail-events <ws-url>")
		fmt.Println("Example: tail-events ws://localhost:8640/events")
		os.Exit(1)
	}

	url := os.Args[1]
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		fmt.Printf("Error connecting to %s: %v\n", url, err)
		os.Exit(1)
	}
	defer conn.Close()

	fmt.Printf("Connected to %s, waiting for uploads...\n\n", url)

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	go func() {
		<-interrupt
		conn.Close()
		os.Exit(0)
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			fmt.Printf("Connection closed: %v\n", err)
			return
		}

		var event UploadEvent
		if err := json.Unmarshal(data, &event); err != nil {
			fmt.Printf("Skipping unparseable event: %v\n", err)
			continue
		}

		var total int64
		for _, f := range event.Files {
			total += f.Size
		}

		fmt.Printf("[%s] %s from %s: %d file(s), %d bytes\n",
			event.ReceivedAt.Format("15:04:05"),
			event.CorrelationID,
			event.RemoteAddr,
			len(event.Files),
			total,
		)
		for _, f := range event.Files {
			fmt.Printf("  - %s (%d bytes)\n", f.Name, f.Size)
		}
		for key, value := range event.Fields {
			fmt.Printf("  %s=%s\n", key, value)
		}
		fmt.Println()
	}
}
