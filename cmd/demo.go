package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/spf13/cobra"
)

var demoBaseURL string

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Exercise a running API end to end: create, patch, search, delete",
	RunE:  runDemo,
}

func init() {
	demoCmd.Flags().StringVar(&demoBaseURL, "base-url", "http://localhost:8097", "base URL of a running helpdesk-api server")
}

func demoRequest(client *http.Client, method, path string, body interface{}) (int, json.RawMessage, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, nil, err
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, demoBaseURL+path, reader)
	if err != nil {
		return 0, nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, err
	}
	return resp.StatusCode, data, nil
}

func runDemo(cmd *cobra.Command, args []string) error {
	client := &http.Client{Timeout: 10 * time.Second}

	log.Println("=== ADD TICKETS ===")
	seeds := []map[string]interface{}{
		{"title": "Printer not working", "description": "Office printer keeps jamming", "priority": 3},
		{"title": "Laptop overheating", "description": "Fan is loud and laptop shuts down", "priority": 5},
		{"title": "Email not syncing", "description": "Outlook not updating inbox", "priority": 2},
	}
	var ids []uint64
	for _, seed := range seeds {
		status, body, err := demoRequest(client, http.MethodPost, "/tickets/", seed)
		if err != nil {
			return fmt.Errorf("create ticket: %w", err)
		}
		log.Printf("POST /tickets/ -> %d %s", status, body)
		var created struct {
			ID uint64 `json:"id"`
		}
		if err := json.Unmarshal(body, &created); err != nil {
			return fmt.Errorf("decode create response: %w", err)
		}
		ids = append(ids, created.ID)
	}

	log.Println("=== PATCH TICKET ===")
	status, body, err := demoRequest(client, http.MethodPatch,
		fmt.Sprintf("/tickets/%d", ids[0]), map[string]interface{}{"status": "in_progress"})
	if err != nil {
		return fmt.Errorf("patch ticket: %w", err)
	}
	log.Printf("PATCH /tickets/%d -> %d %s", ids[0], status, body)

	log.Println("=== GET TICKET ===")
	status, body, err = demoRequest(client, http.MethodGet, fmt.Sprintf("/tickets/%d", ids[0]), nil)
	if err != nil {
		return fmt.Errorf("get ticket: %w", err)
	}
	log.Printf("GET /tickets/%d -> %d %s", ids[0], status, body)

	log.Println("=== SEARCH ===")
	searches := []string{
		"/tickets/search?priority=5",
		"/tickets/search?status=in_progress",
		"/tickets/search?title=printer%20not%20working",
		"/tickets/search",
	}
	for _, path := range searches {
		status, body, err = demoRequest(client, http.MethodGet, path, nil)
		if err != nil {
			return fmt.Errorf("search: %w", err)
		}
		log.Printf("GET %s -> %d %s", path, status, body)
	}

	log.Println("=== DELETE TICKET (twice, second one must 404) ===")
	for i := 0; i < 2; i++ {
		status, body, err = demoRequest(client, http.MethodDelete, fmt.Sprintf("/tickets/%d", ids[2]), nil)
		if err != nil {
			return fmt.Errorf("delete ticket: %w", err)
		}
		log.Printf("DELETE /tickets/%d -> %d %s", ids[2], status, body)
	}

	log.Println("demo: done")
	return nil
}
