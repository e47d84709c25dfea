package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"
)

// MessageInput is the composer payload
type MessageInput struct {
	Transaction              string `json:"transaction"`
	Switch                   string `json:"switch"`
	PrimaryAccountNumber     string `json:"primaryAccountNumber,omitempty"`
	TransactionAmount        string `json:"transactionAmount"`
	AcquiringInstitutionCode string `json:"acquiringInstitutionCode"`
	TransactionFee           string `json:"transactionFee"`
	TerminalNameAndLocation  string `json:"terminalNameAndLocation"`
	CurrencyCode             string `json:"currencyCode"`
	TerminalID               string `json:"terminalId"`
	SourceAccount            string `json:"sourceAccount,omitempty"`
	DestinationAccount       string `json:"destinationAccount,omitempty"`
	Channel                  string `json:"channel"`
	Device                   string `json:"device"`
	TargetBank               string `json:"targetBank,omitempty"`
}

// SubmitResponse is the answer of /api/composer/submit
type SubmitResponse struct {
	Response struct {
		TraceNumber  string `json:"traceNumber"`
		ResponseCode string `json:"responseCode"`
		Balance      string `json:"balance"`
	} `json:"response"`
	Approved bool `json:"approved"`
}

// TestResult contains metrics for a single request
type TestResult struct {
	Scenario     string
	StatusCode   int
	ResponseCode string
	ResponseTime time.Duration
	Error        error
}

// TestStats contains aggregated test statistics
type TestStats struct {
	TotalRequests int
	TotalTime     time.Duration
	ResponseTimes []time.Duration
	StatusCounts  map[int]int
	ResponseCodes map[string]int
	ScenarioStats map[string]int
	ErrorCounts   map[string]int
	Lock          sync.Mutex
}

// Scenario is one kind of message the smoke test submits
type Scenario struct {
	Name        string
	Transaction string
	Amount      string
	Channel     string
	TargetBank  string
}

func main() {
	concurrency := flag.Int("c", 1, "Number of concurrent submitters; above 1 exercises busy rejection")
	totalRequests := flag.Int("n", 20, "Total number of submissions")
	switchesStr := flag.String("s", "CORTEX,NARADA,POSTBRIDGE", "Comma-separated switches to target")
	baseURL := flag.String("url", "http://localhost:8080", "Base URL of the console API")
	terminalID := flag.String("terminal", "61740007", "Terminal ID, exactly 8 characters")
	delayMs := flag.Int("delay", 250, "Delay between submissions in milliseconds")
	flag.Parse()

	var switches []string
	for _, s := range strings.Split(*switchesStr, ",") {
		if s = strings.TrimSpace(s); s != "" {
			switches = append(switches, strings.ToUpper(s))
		}
	}
	if len(switches) == 0 {
		switches = []string{"CORTEX"}
	}

	scenarios := []Scenario{
		{"Withdraw", "WITHDRAW", "500.00", "ON_US", ""},
		{"Balance", "BAL_INQ", "0", "ON_US", ""},
		{"Transfer", "FT", "1250.75", "ON_US", ""},
		{"Off-us withdraw", "WITHDRAW", "1000.00", "OFF_US", ""},
	}

	fmt.Printf("Submitting %d messages to %v through %s\n", *totalRequests, switches, *baseURL)
	fmt.Printf("Concurrency: %d, delay: %d ms\n", *concurrency, *delayMs)

	stats := &TestStats{
		TotalRequests: *totalRequests,
		StatusCounts:  make(map[int]int),
		ResponseCodes: make(map[string]int),
		ScenarioStats: make(map[string]int),
		ErrorCounts:   make(map[string]int),
	}

	jobs := make(chan int, *totalRequests)
	for i := 0; i < *totalRequests; i++ {
		jobs <- i
	}
	close(jobs)

	results := make(chan TestResult, *totalRequests)
	var wg sync.WaitGroup
	startTime := time.Now()
	for i := 0; i < *concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			worker(*baseURL, *terminalID, *delayMs, switches, scenarios, jobs, results)
		}()
	}
	wg.Wait()
	close(results)
	stats.TotalTime = time.Since(startTime)

	for result := range results {
		stats.ResponseTimes = append(stats.ResponseTimes, result.ResponseTime)
		stats.ScenarioStats[result.Scenario]++
		if result.Error != nil {
			stats.ErrorCounts[result.Error.Error()]++
			continue
		}
		stats.StatusCounts[result.StatusCode]++
		if result.ResponseCode != "" {
			stats.ResponseCodes[result.ResponseCode]++
		}
	}

	printResults(stats)
}

func worker(baseURL, terminalID string, delayMs int, switches []string, scenarios []Scenario,
	jobs <-chan int, results chan<- TestResult) {

	client := &http.Client{Timeout: 90 * time.Second}

	for range jobs {
		if delayMs > 0 {
			time.Sleep(time.Duration(delayMs) * time.Millisecond)
		}

		scenario := scenarios[rand.Intn(len(scenarios))]
		input := MessageInput{
			Transaction:              scenario.Transaction,
			Switch:                   switches[rand.Intn(len(switches))],
			PrimaryAccountNumber:     "6214780000000000017",
			TransactionAmount:        scenario.Amount,
			AcquiringInstitutionCode: "928",
			TransactionFee:           "0",
			TerminalNameAndLocation:  "SMOKE TEST TERMINAL",
			CurrencyCode:             "608",
			TerminalID:               terminalID,
			SourceAccount:            "001234567890",
			Channel:                  scenario.Channel,
			Device:                   "6011",
			TargetBank:               scenario.TargetBank,
		}
		if scenario.Transaction == "FT" {
			input.DestinationAccount = "009876543210"
		}

		results <- submit(client, baseURL, scenario.Name, input)
	}
}

func submit(client *http.Client, baseURL, scenario string, input MessageInput) TestResult {
	result := TestResult{Scenario: scenario}

	body, err := json.Marshal(input)
	if err != nil {
		result.Error = err
		return result
	}

	start := time.Now()
	resp, err := client.Post(baseURL+"/api/composer/submit", "application/json", bytes.NewReader(body))
	result.ResponseTime = time.Since(start)
	if err != nil {
		result.Error = err
		return result
	}
	defer resp.Body.Close()

	result.StatusCode = resp.StatusCode
	if resp.StatusCode == http.StatusOK {
		var out SubmitResponse
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			result.Error = fmt.Errorf("undecodable response: %w", err)
			return result
		}
		result.ResponseCode = out.Response.ResponseCode
	}
	return result
}

func percentile(sorted []time.Duration, p int) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	return sorted[len(sorted)*p/100]
}

func printResults(stats *TestStats) {
	sorted := append([]time.Duration(nil), stats.ResponseTimes...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	var total time.Duration
	for _, d := range sorted {
		total += d
	}
	var avg time.Duration
	if len(sorted) > 0 {
		avg = total / time.Duration(len(sorted))
	}

	fmt.Println("\n================= SMOKE TEST RESULTS =================")
	fmt.Printf("Total Submissions:   %d\n", stats.TotalRequests)
	fmt.Printf("Total Test Time:     %.2f seconds\n", stats.TotalTime.Seconds())

	fmt.Println("\n----------------- RESPONSE TIMES -----------------")
	fmt.Printf("Average Response:    %v\n", avg)
	fmt.Printf("P50 Response:        %v\n", percentile(sorted, 50))
	fmt.Printf("P90 Response:        %v\n", percentile(sorted, 90))
	if len(sorted) > 0 {
		fmt.Printf("Maximum Response:    %v\n", sorted[len(sorted)-1])
	}

	fmt.Println("\n----------------- HTTP STATUS -----------------")
	for status, count := range stats.StatusCounts {
		label := http.StatusText(status)
		if status == http.StatusConflict {
			label += " (busy, expected with -c > 1)"
		}
		fmt.Printf("%d %-40s: %d\n", status, label, count)
	}

	fmt.Println("\n----------------- SWITCH RESPONSE CODES -----------------")
	for code, count := range stats.ResponseCodes {
		fmt.Printf("%-6s: %d\n", code, count)
	}

	fmt.Println("\n----------------- SCENARIO DISTRIBUTION -----------------")
	for scenario, count := range stats.ScenarioStats {
		fmt.Printf("%-16s: %d\n", scenario, count)
	}

	if len(stats.ErrorCounts) > 0 {
		fmt.Println("\n----------------- TRANSPORT ERRORS -----------------")
		for errMsg, count := range stats.ErrorCounts {
			fmt.Printf("%-60s: %d\n", errMsg, count)
		}
	}
	fmt.Println("======================================================")
}
