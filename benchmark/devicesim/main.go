// devicesim drives a running server with a fleet of simulated field probes:
// it registers a throwaway account, provisions devices, then uploads jittered
// water quality readings as fast as the server accepts them.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
)

var maxDevices int = 200
var readingsPerDevice int = 10
var baseURL string = "http://127.0.0.1:8080"

var rnd *rand.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))

type tokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

func postJSON(path, token string, payload any) (*http.Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequest(http.MethodPost, baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return http.DefaultClient.Do(req)
}

func mustOK(resp *http.Response, err error, what string) []byte {
	if err != nil {
		log.Fatalf("%s failed: %v", what, err)
	}
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 300 {
		log.Fatalf("%s failed with status %d: %s", what, resp.StatusCode, data)
	}
	return data
}

func main() {
	resp, err := http.Get(baseURL + "/health")
	if err != nil {
		log.Fatal("Failed to connect to HTTP server:", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		log.Fatal("HTTP server not available")
	}
	fmt.Println("http server verified")

	username := "sim-" + uuid.NewString()[:8]
	password := uuid.NewString()
	resp, err = postJSON("/api/register", "", map[string]any{
		"username": username,
		"email":    username + "@devicesim.local",
		"password": password,
	})
	mustOK(resp, err, "register")

	var tokens tokenPair
	resp, err = postJSON("/api/login", "", map[string]any{
		"username": username,
		"password": password,
	})
	data := mustOK(resp, err, "login")
	if err := json.Unmarshal(data, &tokens); err != nil {
		log.Fatal("Failed to parse login response:", err)
	}
	fmt.Printf("registered and logged in as %s\n", username)

	deviceIDs := make([]uint, maxDevices)
	for i := 0; i < maxDevices; i++ {
		resp, err = postJSON("/api/devices", tokens.Access, map[string]any{
			"name":     fmt.Sprintf("sim-probe-%03d", i),
			"location": "bench",
		})
		data := mustOK(resp, err, "create device")
		var device struct {
			ID uint `json:"id"`
		}
		if err := json.Unmarshal(data, &device); err != nil {
			log.Fatal("Failed to parse device response:", err)
		}
		deviceIDs[i] = device.ID
	}
	fmt.Printf("provisioned %v devices\n", maxDevices)

	startTime := time.Now()
	var failed int64
	var mu sync.Mutex
	wg := sync.WaitGroup{}

	for _, id := range deviceIDs {
		wg.Add(1)
		go func(deviceID uint) {
			defer wg.Done()
			for j := 0; j < readingsPerDevice; j++ {
				resp, err := postJSON("/api/upload-reading", tokens.Access, map[string]any{
					"timestamp": time.Now().Format(time.RFC3339),
					"ph":        6.5 + rnd.Float64()*2.0,
					"tds":       100 + rnd.Float64()*400,
					"ntu":       rnd.Float64() * 10,
					"battery":   20 + rnd.Float64()*80,
					"device_id": deviceID,
				})
				if err != nil || resp.StatusCode >= 300 {
					mu.Lock()
					failed++
					mu.Unlock()
				}
				if resp != nil {
					resp.Body.Close()
				}
			}
		}(id)
	}
	wg.Wait()

	usedTime := time.Since(startTime)
	total := maxDevices * readingsPerDevice
	fmt.Printf("uploaded %v readings in %v (%v failed), %.1f req/s\n",
		total, usedTime, failed, float64(total)/usedTime.Seconds())
}
