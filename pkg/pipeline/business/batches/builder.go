package batches

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
)

const chatCompletionsURL = "/v1/chat/completions"

// NewRequestRecord builds a single batch request with an explicit request
// identifier. The identifier must stay stable across request and response.
func NewRequestRecord(customID, prompt, systemMessage, model string, maxTokens int, schema ResponseSchema) RequestRecord {
	return RequestRecord{
		CustomID: customID,
		Method:   http.MethodPost,
		URL:      chatCompletionsURL,
		Body: RequestBody{
			Model: model,
			Messages: []Message{
				{Role: "system", Content: systemMessage},
				{Role: "user", Content: prompt},
			},
			MaxTokens:      maxTokens,
			ResponseFormat: schema.ResponseFormat(),
		},
	}
}

// BuildRequests constructs one batch request per prompt, in prompt order.
// Request identifiers are index-derived ("request-1", "request-2", ...) so
// repeated builds of the same input yield the same identifier set.
func BuildRequests(prompts []string, schema ResponseSchema, systemMessage, model string, maxTokens int) []RequestRecord {
	records := make([]RequestRecord, len(prompts))
	for i, prompt := range prompts {
		customID := fmt.Sprintf("request-%d", i+1)
		records[i] = NewRequestRecord(customID, prompt, systemMessage, model, maxTokens, schema)
	}

	return records
}

// WriteRecordsFile serializes the records as line-delimited JSON, overwriting
// any existing file at path.
func WriteRecordsFile(records []RequestRecord, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create batch input file %s: %w", path, err)
	}
	defer file.Close() //nolint:errcheck

	writer := bufio.NewWriter(file)
	encoder := json.NewEncoder(writer)
	for _, record := range records {
		if err := encoder.Encode(record); err != nil {
			return fmt.Errorf("failed to encode batch request %s: %w", record.CustomID, err)
		}
	}

	if err := writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush batch input file %s: %w", path, err)
	}

	return nil
}

// ReadRequestsFile parses a line-delimited batch input file.
func ReadRequestsFile(path string) ([]RequestRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open batch input file %s: %w", path, err)
	}
	defer file.Close() //nolint:errcheck

	var records []RequestRecord

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		if len(scanner.Bytes()) == 0 {
			continue
		}

		var record RequestRecord
		if err := json.Unmarshal(scanner.Bytes(), &record); err != nil {
			return nil, fmt.Errorf("failed to parse batch request line in %s: %w", path, err)
		}

		records = append(records, record)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read batch input file %s: %w", path, err)
	}

	return records, nil
}

// WriteResultsFile serializes result records as line-delimited JSON,
// overwriting any existing file at path.
func WriteResultsFile(records []ResultRecord, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create batch output file %s: %w", path, err)
	}
	defer file.Close() //nolint:errcheck

	writer := bufio.NewWriter(file)
	encoder := json.NewEncoder(writer)
	for _, record := range records {
		if err := encoder.Encode(record); err != nil {
			return fmt.Errorf("failed to encode batch result %s: %w", record.CustomID, err)
		}
	}

	if err := writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush batch output file %s: %w", path, err)
	}

	return nil
}

// ReadResultsFile parses a line-delimited batch output file.
func ReadResultsFile(path string) ([]ResultRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open batch output file %s: %w", path, err)
	}
	defer file.Close() //nolint:errcheck

	var records []ResultRecord

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		if len(scanner.Bytes()) == 0 {
			continue
		}

		var record ResultRecord
		if err := json.Unmarshal(scanner.Bytes(), &record); err != nil {
			return nil, fmt.Errorf("failed to parse batch result line in %s: %w", path, err)
		}

		records = append(records, record)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read batch output file %s: %w", path, err)
	}

	return records, nil
}
