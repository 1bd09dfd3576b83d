package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
)

var maxDevices int = 2000
var httpHostPort string = "127.0.0.1:1080"

var rnd *rand.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))

type readingBody struct {
	DeviceID string  `json:"deviceId"`
	Location string  `json:"location"`
	Value    float64 `json:"value"`
}

func postReading(path string, body readingBody) error {
	b, _ := json.Marshal(body)
	resp, err := http.Post(
		fmt.Sprintf("http://%s%s", httpHostPort, path),
		"application/json",
		bytes.NewReader(b),
	)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d for %s", resp.StatusCode, path)
	}
	return nil
}

func main() {
	deviceIDs := make([]string, maxDevices)
	for i := 0; i < maxDevices; i++ {
		deviceIDs[i] = uuid.NewString()
	}
	fmt.Printf("generated %v device IDs\n", maxDevices)

	resp, err := http.Get(fmt.Sprintf("http://%s/healthz", httpHostPort))
	if err != nil {
		log.Fatal("Failed to connect to HTTP server:", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		log.Fatal("HTTP server not available")
	}

	fmt.Printf("http server verified\n")

	locations := []string{"sawah", "kolam"}

	startTime := time.Now()
	wg := sync.WaitGroup{}
	for _, deviceID := range deviceIDs {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			location := locations[rnd.Intn(len(locations))]

			if err := postReading("/api/ph", readingBody{
				DeviceID: id,
				Location: location,
				Value:    5.5 + rnd.Float64()*4.0,
			}); err != nil {
				log.Println("ph post failed:", err)
			}

			if err := postReading("/api/water-level", readingBody{
				DeviceID: id,
				Location: location,
				Value:    10 + rnd.Float64()*160,
			}); err != nil {
				log.Println("water-level post failed:", err)
			}
		}(deviceID)
	}
	wg.Wait()
	usedTime := time.Since(startTime)

	fmt.Printf("posted 2 readings for each of %v devices in %v (%.1f req/s)\n",
		maxDevices, usedTime, float64(2*maxDevices)/usedTime.Seconds())
}
