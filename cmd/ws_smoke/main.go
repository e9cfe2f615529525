package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"crafting_arena/internal/service"

	"github.com/gorilla/websocket"
)

// Dials the arena event feed with a freshly minted session token and
// prints whatever arrives for a few seconds.
func main() {
	if os.Getenv("JWT_SECRET") == "" {
		log.Fatal("JWT_SECRET not set")
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	address := os.Getenv("DEV_ADDRESS")
	if address == "" {
		address = "dev:player1"
	}

	service.InitJWT()
	token, err := service.GenerateJWT(address)
	if err != nil {
		log.Fatalf("generate token: %v", err)
	}

	// use 127.0.0.1 to prefer IPv4 (avoid resolving to [::1])
	wsURL := fmt.Sprintf("ws://127.0.0.1:%s/ws?token=%s", port, token)
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		log.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	log.Println("connected, listening for arena events...")

	// a single overall deadline; gorilla treats read errors as fatal
	_ = conn.SetReadDeadline(time.Now().Add(10 * time.Second))
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			break
		}
		log.Printf("event: %s", string(msg))
	}

	log.Println("smoke test finished")
}
