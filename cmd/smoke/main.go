// End-to-end smoke check against a running API: signup, perimeter setup,
// clock-in/out and a summary report.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"
	"time"
)

func main() {
	base := os.Getenv("SHIFTCLOCK_API_URL")
	if base == "" {
		base = "http://localhost:8080"
	}
	client := &http.Client{Timeout: 5 * time.Second}

	email := fmt.Sprintf("smoke-%d@example.com", rand.Int())
	signup := call(client, http.MethodPost, base+"/v1/auth/signup", "", map[string]any{
		"email":    email,
		"password": "smoke-test-password",
	})
	token, _ := signup["token"].(string)
	if token == "" {
		log.Fatalf("signup returned no token: %v", signup)
	}

	in := call(client, http.MethodPost, base+"/v1/shifts/clock-in", token, map[string]any{
		"latitude":  51.5,
		"longitude": -0.12,
		"note":      "smoke",
	})
	shiftObj, _ := in["shift"].(map[string]any)
	if shiftObj == nil || shiftObj["id"] == "" {
		log.Fatalf("clock-in failed: %v", in)
	}
	if in["already_open"] == true {
		log.Fatalf("fresh account reported an open shift")
	}

	out := call(client, http.MethodPost, base+"/v1/shifts/clock-out", token, map[string]any{
		"latitude":  51.5,
		"longitude": -0.12,
	})
	if out["closed"] != true {
		log.Fatalf("clock-out did not close the shift: %v", out)
	}

	report := call(client, http.MethodGet, base+"/v1/reports/summary", token, nil)
	summary, _ := report["summary"].(map[string]any)
	if summary == nil || summary["total_shifts"].(float64) < 1 {
		log.Fatalf("summary missing the shift: %v", report)
	}

	fmt.Printf("✅ shiftclock smoke test passed: worker=%s shift=%v\n", email, shiftObj["id"])
}

func call(client *http.Client, method, url, token string, body any) map[string]any {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			log.Fatalf("marshal %s: %v", url, err)
		}
	}
	req, err := http.NewRequest(method, url, bytes.NewReader(payload))
	if err != nil {
		log.Fatalf("request %s: %v", url, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := client.Do(req)
	if err != nil {
		log.Fatalf("call %s: %v", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		log.Fatalf("call %s: status %d", url, resp.StatusCode)
	}
	var decoded map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		log.Fatalf("decode %s: %v", url, err)
	}
	return decoded
}
