package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"
)

// golden_check replays fixed grading requests against a running planner and compares the
// envelope data with the expected values, e.g. after a policy table change.

type target struct {
	Method   string          `json:"method"`
	Path     string          `json:"path"`
	Critical bool            `json:"critical"`
	Body     json.RawMessage `json:"body"`
	Expect   json.RawMessage `json:"expect"`
}

type config struct {
	Targets []target `json:"targets"`
}

type comparison struct {
	Target    target
	Status    int
	DataMatch bool
	Error     error
	Duration  time.Duration
}

func main() {
	var (
		base        string
		targetsPath string
		timeout     time.Duration
	)

	flag.StringVar(&base, "base", "http://localhost:8080", "Planner API base URL")
	flag.StringVar(&targetsPath, "targets", filepath.Join("scripts", "golden_check", "targets.json"), "Path to JSON targets file")
	flag.DurationVar(&timeout, "timeout", 5*time.Second, "HTTP client timeout")
	flag.Parse()

	targets, err := loadTargets(targetsPath)
	if err != nil {
		log.Fatalf("failed to load targets: %v", err)
	}

	client := &http.Client{Timeout: timeout}
	var (
		comparisons  []comparison
		breaking     int
		optionalDiff int
	)

	for _, t := range targets {
		comp := compareTarget(client, base, t)
		if comp.Error != nil || !comp.DataMatch {
			if t.Critical {
				breaking++
			} else {
				optionalDiff++
			}
		}
		comparisons = append(comparisons, comp)
	}

	printReport(comparisons)

	fmt.Printf("Breaking diffs: %d, Optional diffs: %d\n", breaking, optionalDiff)
	if breaking > 0 {
		os.Exit(1)
	}
}

func loadTargets(path string) ([]target, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if len(cfg.Targets) == 0 {
		return nil, fmt.Errorf("no targets defined in %s", path)
	}
	return cfg.Targets, nil
}

func compareTarget(client *http.Client, base string, tgt target) comparison {
	comp := comparison{Target: tgt}
	resp, dur, err := performRequest(client, base, tgt)
	comp.Duration = dur
	if err != nil {
		comp.Error = fmt.Errorf("request failed: %w", err)
		return comp
	}
	defer resp.Body.Close()
	comp.Status = resp.StatusCode

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		comp.Error = fmt.Errorf("read body: %w", err)
		return comp
	}
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		comp.Error = fmt.Errorf("decode envelope: %w", err)
		return comp
	}
	comp.DataMatch = containsExpected(envelope.Data, tgt.Expect)
	return comp
}

func performRequest(client *http.Client, base string, tgt target) (*http.Response, time.Duration, error) {
	if client == nil {
		return nil, 0, errors.New("nil client")
	}
	method := strings.ToUpper(strings.TrimSpace(tgt.Method))
	if method == "" {
		method = http.MethodGet
	}
	path := tgt.Path
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	url := strings.TrimRight(base, "/") + path

	req, err := http.NewRequest(method, url, bytes.NewReader(tgt.Body))
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	return resp, time.Since(start), nil
}

// containsExpected reports whether every field of expect is present with the same value in
// actual. Fields the fixture leaves out are ignored.
func containsExpected(actual, expect []byte) bool {
	var aj, ej interface{}
	if err := json.Unmarshal(actual, &aj); err != nil {
		return false
	}
	if err := json.Unmarshal(expect, &ej); err != nil {
		return false
	}
	return subset(ej, aj)
}

func subset(expect, actual interface{}) bool {
	switch ev := expect.(type) {
	case map[string]interface{}:
		av, ok := actual.(map[string]interface{})
		if !ok {
			return false
		}
		for k, v := range ev {
			if !subset(v, av[k]) {
				return false
			}
		}
		return true
	case float64:
		af, ok := actual.(float64)
		return ok && fmt.Sprintf("%.4f", ev) == fmt.Sprintf("%.4f", af)
	default:
		return reflect.DeepEqual(expect, actual)
	}
}

func printReport(results []comparison) {
	fmt.Println("Golden Check Report")
	fmt.Println("===================")
	for _, res := range results {
		status := "OK"
		if res.Error != nil {
			status = "ERROR"
		} else if !res.DataMatch {
			status = "DIFF"
		}
		fmt.Printf("[%s] %s %s\n", status, res.Target.Method, res.Target.Path)
		fmt.Printf("  Status: %d (%s)\n", res.Status, res.Duration)
		if res.Error != nil {
			fmt.Printf("  Error: %v\n", res.Error)
		} else {
			fmt.Printf("  Data match: %t | Critical: %t\n", res.DataMatch, res.Target.Critical)
		}
	}
}
