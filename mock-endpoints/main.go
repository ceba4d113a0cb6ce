package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
)

var requestCount atomic.Int64
var flakyCount atomic.Int64

func main() {
	port := "9090"
	if p := os.Getenv("PORT"); p != "" {
		port = p
	}

	r := chi.NewRouter()

	// Successful endpoint — always returns 200
	r.Post("/webhook/success", func(w http.ResponseWriter, req *http.Request) {
		count := requestCount.Add(1)
		logRequest(req, count, 200)
		writeJSON(w, http.StatusOK, map[string]string{"status": "received"})
	})

	// Slow endpoint — delays 3 seconds before responding
	r.Post("/webhook/slow", func(w http.ResponseWriter, req *http.Request) {
		count := requestCount.Add(1)
		time.Sleep(3 * time.Second)
		logRequest(req, count, 200)
		writeJSON(w, http.StatusOK, map[string]string{"status": "received (slow)"})
	})

	// Failing endpoint — always returns 500
	r.Post("/webhook/fail", func(w http.ResponseWriter, req *http.Request) {
		count := requestCount.Add(1)
		logRequest(req, count, 500)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	})

	// Flaky endpoint — fails the first N requests (?after=N, default 3), then
	// succeeds. Lets a simulate run followed by a retry run exercise the full
	// fail-store-redeliver path.
	r.Post("/webhook/flaky", func(w http.ResponseWriter, req *http.Request) {
		after := int64(3)
		if v := req.URL.Query().Get("after"); v != "" {
			if n, err := strconv.ParseInt(v, 10, 64); err == nil && n >= 0 {
				after = n
			}
		}

		count := requestCount.Add(1)
		if flakyCount.Add(1) <= after {
			logRequest(req, count, 500)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "flaky failure"})
			return
		}
		logRequest(req, count, 200)
		writeJSON(w, http.StatusOK, map[string]string{"status": "received (flaky recovered)"})
	})

	// Stats endpoint — shows request count
	r.Get("/stats", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, map[string]int64{
			"total_requests": requestCount.Load(),
			"flaky_requests": flakyCount.Load(),
		})
	})

	log.Printf("Mock endpoint server starting on :%s", port)
	log.Printf("  POST /webhook/success  -> 200 OK")
	log.Printf("  POST /webhook/slow     -> 200 OK (3s delay)")
	log.Printf("  POST /webhook/fail     -> 500 Error")
	log.Printf("  POST /webhook/flaky    -> 500 for first N (?after=N), then 200")
	log.Printf("  GET  /stats            -> request count")

	if err := http.ListenAndServe(":"+port, r); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func logRequest(r *http.Request, count int64, status int) {
	var ev struct {
		EventID   string `json:"eventId"`
		EventType string `json:"eventType"`
		MatchID   string `json:"matchId"`
	}
	_ = json.NewDecoder(r.Body).Decode(&ev)

	fmt.Printf("[#%d] %s %s -> %d | event=%s type=%s match=%s\n",
		count,
		r.Method,
		r.URL.Path,
		status,
		truncate(ev.EventID, 8),
		ev.EventType,
		truncate(ev.MatchID, 8),
	)
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n] + "..."
	}
	return s
}
