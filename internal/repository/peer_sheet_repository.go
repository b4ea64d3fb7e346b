package repository

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/noah-isme/hub-grade-planner/pkg/grading"
)

const maxSheetBytes = 20 << 20

// PeerSheetRepository downloads published cohort sheets as tab-separated values.
type PeerSheetRepository struct {
	client *http.Client
}

// NewPeerSheetRepository constructs the fetcher. A nil client gets one with timeout.
func NewPeerSheetRepository(client *http.Client, timeout time.Duration) *PeerSheetRepository {
	if client == nil {
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	return &PeerSheetRepository{client: client}
}

// Fetch downloads and parses the sheet at url.
func (r *PeerSheetRepository) Fetch(ctx context.Context, url string) ([]grading.PeerRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build sheet request: %w", err)
	}
	req.Header.Set("Accept", "text/tab-separated-values")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch sheet: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch sheet: unexpected status %d", resp.StatusCode)
	}
	return ParsePeerTSV(io.LimitReader(resp.Body, maxSheetBytes))
}

// ParsePeerTSV reads a cohort sheet with a header row. Columns are located by substring:
// the first header containing "thang 4" holds the 4-point GPA, "TC" the credits and "RL" the
// training score. Decimal commas are accepted and unreadable cells count as zero.
func ParsePeerTSV(r io.Reader) ([]grading.PeerRecord, error) {
	reader := csv.NewReader(r)
	reader.Comma = '\t'
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("sheet is empty")
		}
		return nil, fmt.Errorf("read sheet header: %w", err)
	}
	gpaCol := findColumn(header, "thang 4")
	creditsCol := findColumn(header, "TC")
	drlCol := findColumn(header, "RL")

	records := make([]grading.PeerRecord, 0, 256)
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read sheet row: %w", err)
		}
		if blankRow(row) {
			continue
		}
		records = append(records, grading.PeerRecord{
			GPA4:    parseSheetFloat(cell(row, gpaCol)),
			Credits: parseSheetInt(cell(row, creditsCol)),
			DRL:     parseSheetInt(cell(row, drlCol)),
		})
	}
	return records, nil
}

func findColumn(header []string, needle string) int {
	for i, h := range header {
		if strings.Contains(h, needle) {
			return i
		}
	}
	return -1
}

func cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}

func blankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// parseSheetFloat turns the first decimal comma into a point and reads the leading number.
func parseSheetFloat(raw string) float64 {
	raw = strings.Replace(raw, ",", ".", 1)
	v, err := strconv.ParseFloat(numericPrefix(raw, true), 64)
	if err != nil {
		return 0
	}
	return v
}

func parseSheetInt(raw string) int {
	v, err := strconv.Atoi(numericPrefix(raw, false))
	if err != nil {
		return 0
	}
	return v
}

// numericPrefix returns the leading signed number of raw, so "18 TC" reads as 18.
func numericPrefix(raw string, decimal bool) string {
	end := 0
	seenDot := false
	for i, ch := range raw {
		switch {
		case ch >= '0' && ch <= '9':
		case (ch == '-' || ch == '+') && i == 0:
		case ch == '.' && decimal && !seenDot:
			seenDot = true
		default:
			return raw[:end]
		}
		end = i + 1
	}
	return raw[:end]
}
