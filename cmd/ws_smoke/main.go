package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gorilla/websocket"

	"flowtasks/internal/db"
	"flowtasks/internal/repository"
	"flowtasks/internal/service"
)

// Connects to the running server as the given user, joins a project group
// and prints every event it receives. Mutate tasks in another terminal to
// see the fan-out live.
func main() {
	email := flag.String("email", "demo@flowtasks.local", "user to connect as")
	projectID := flag.String("project", "", "project id to join")
	listenFor := flag.Duration("for", 30*time.Second, "how long to listen")
	flag.Parse()

	if *projectID == "" {
		log.Fatal("-project is required")
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL not set")
	}
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET not set")
	}
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	ctx := context.Background()
	pool := db.Connect(ctx, dsn)
	defer pool.Close()

	users := repository.NewUserRepository(pool)
	user, err := users.GetByEmail(ctx, *email)
	if err != nil {
		log.Fatalf("user %s: %v", *email, err)
	}

	service.InitJWT(secret, 0)
	token, err := service.GenerateJWT(user.ID)
	if err != nil {
		log.Fatalf("generate token: %v", err)
	}

	// 127.0.0.1 to prefer IPv4 over [::1]
	url := fmt.Sprintf("ws://127.0.0.1:%s/ws?token=%s", port, token)
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		log.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	join := fmt.Sprintf(`{"type":"join","project_id":%q}`, *projectID)
	if err := conn.WriteMessage(websocket.TextMessage, []byte(join)); err != nil {
		log.Fatalf("join: %v", err)
	}
	log.Printf("joined project %s, listening for %s", *projectID, *listenFor)

	deadline := time.Now().Add(*listenFor)
	for time.Now().Before(deadline) {
		conn.SetReadDeadline(time.Now().Add(time.Second))
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure) {
				log.Fatalf("read: %v", err)
			}
			continue
		}
		log.Printf("event: %s", string(msg))
	}

	log.Println("smoke test finished")
}
