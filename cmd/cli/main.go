package main

import (
	"bufio"
	"bytes"
	"database/sql"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"strings"
	"time"

	appdb "github.com/yourorg/leaflens/internal/db"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Println("==== LeafLens CLI ====")
		fmt.Println("1) Health check API")
		fmt.Println("2) Seed database (create sample user)")
		fmt.Println("3) Diagnose smoke test (upload an image)")
		fmt.Println("4) Exit")
		fmt.Print("Select option: ")
		choice, _ := reader.ReadString('\n')
		choice = strings.TrimSpace(choice)
		switch choice {
		case "1":
			doHealthCheck()
		case "2":
			doSeed()
		case "3":
			doDiagnose(reader)
		case "4":
			fmt.Println("Bye")
			return
		default:
			fmt.Println("Invalid option")
		}
		fmt.Println()
	}
}

func baseURL() string {
	base := os.Getenv("BASE_URL")
	if base == "" {
		base = "http://127.0.0.1:8080"
	}
	return strings.TrimRight(base, "/")
}

func doHealthCheck() {
	url := baseURL() + "/api/health"
	resp, err := http.Get(url)
	if err != nil {
		fmt.Println("Health: ERROR:", err)
		return
	}
	defer resp.Body.Close()
	fmt.Println("Health status:", resp.Status)
}

func doSeed() {
	db, err := appdb.Connect()
	if err != nil {
		log.Println("DB connect error:", err)
		return
	}
	defer db.Close()
	if err := appdb.EnsureSchema(db); err != nil {
		log.Println("Ensure schema error:", err)
		return
	}
	seedUser(db)
}

// doDiagnose sube una imagen contra /api/diagnose usando un token ya emitido.
func doDiagnose(reader *bufio.Reader) {
	fmt.Print("Bearer token: ")
	token, _ := reader.ReadString('\n')
	token = strings.TrimSpace(token)
	fmt.Print("Image path: ")
	path, _ := reader.ReadString('\n')
	path = strings.TrimSpace(path)

	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Println("Diagnose: read error:", err)
		return
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("image", path)
	if err != nil {
		fmt.Println("Diagnose: multipart error:", err)
		return
	}
	if _, err := part.Write(data); err != nil {
		fmt.Println("Diagnose: multipart error:", err)
		return
	}
	writer.Close()

	req, err := http.NewRequest(http.MethodPost, baseURL()+"/api/diagnose", &body)
	if err != nil {
		fmt.Println("Diagnose: request error:", err)
		return
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	// timeout largo: clasificador + generación pueden tardar
	client := &http.Client{Timeout: 90 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		fmt.Println("Diagnose: ERROR:", err)
		return
	}
	defer resp.Body.Close()
	respBody, _ := io.ReadAll(resp.Body)
	fmt.Println("Diagnose status:", resp.Status)
	fmt.Println(string(respBody))
}

func seedUser(db *sql.DB) {
	// Creates a sample user if not exists
	email := "demo@example.com"
	name := "Demo"
	password := "demo1234"
	var exists int
	_ = db.QueryRow("SELECT 1 FROM users WHERE email = ?", email).Scan(&exists)
	if exists == 1 {
		fmt.Println("Seed: user 'demo@example.com' already exists")
		return
	}
	// Store bcrypt hash using the same logic as handler (quick inline)
	hash, err := bcryptHash(password)
	if err != nil {
		fmt.Println("Seed: bcrypt error:", err)
		return
	}
	_, err = db.Exec("INSERT INTO users (name,email,password_hash) VALUES (?,?,?)", name, email, hash)
	if err != nil {
		fmt.Println("Seed: insert error:", err)
		return
	}
	fmt.Println("Seed: created user 'demo@example.com' with password 'demo1234'")
}

func bcryptHash(pw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	return string(b), err
}
