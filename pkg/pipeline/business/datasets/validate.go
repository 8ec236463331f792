package datasets

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/eser/distill/pkg/pipeline/business/batches"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ValidationError reports dataset lines that do not satisfy the fine-tuning
// format or the declared response schema. Lines are 1-based.
type ValidationError struct {
	Path    string
	Lines   []int
	Reasons []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("dataset file %s failed validation on lines %v", e.Path, e.Lines)
}

var expectedRoles = []string{"system", "user", "assistant"}

// Validate re-parses every line of a written dataset file and confirms it is
// a well-formed fine-tuning example whose assistant turn conforms to the
// response schema. Returns a *ValidationError listing offending line numbers
// when any line fails.
func (s *Service) Validate(path string, schema batches.ResponseSchema) error {
	schemaDoc, err := schema.JSONSchema()
	if err != nil {
		return err
	}

	compiled, err := jsonschema.CompileString(schema.Name+".json", schemaDoc)
	if err != nil {
		return fmt.Errorf("failed to compile response schema %s: %w", schema.Name, err)
	}

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open dataset file %s: %w", path, err)
	}
	defer file.Close() //nolint:errcheck

	validationErr := &ValidationError{Path: path}

	lineNo := 0
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		lineNo++

		if reason := validateLine(scanner.Bytes(), compiled); reason != "" {
			validationErr.Lines = append(validationErr.Lines, lineNo)
			validationErr.Reasons = append(validationErr.Reasons, reason)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read dataset file %s: %w", path, err)
	}

	if len(validationErr.Lines) > 0 {
		s.logger.Error("[Datasets] Dataset validation failed", "module", "datasets", "path", path, "invalidLines", validationErr.Lines)

		return validationErr
	}

	s.logger.Info("[Datasets] Dataset validated", "module", "datasets", "path", path, "lines", lineNo)

	return nil
}

func validateLine(line []byte, compiled *jsonschema.Schema) string {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(line, &raw); err != nil {
		return "line is not a JSON object"
	}

	messagesRaw, ok := raw["messages"]
	if !ok || len(raw) != 1 {
		return "line must have exactly one 'messages' key"
	}

	var messages []batches.Message
	if err := json.Unmarshal(messagesRaw, &messages); err != nil {
		return "'messages' is not a list of role-tagged turns"
	}

	if len(messages) != len(expectedRoles) {
		return fmt.Sprintf("expected %d messages, got %d", len(expectedRoles), len(messages))
	}

	for i, message := range messages {
		if message.Role != expectedRoles[i] {
			return fmt.Sprintf("message %d has role %q, expected %q", i, message.Role, expectedRoles[i])
		}

		if strings.TrimSpace(message.Content) == "" {
			return fmt.Sprintf("message %d has blank content", i)
		}
	}

	var structured any
	if err := json.Unmarshal([]byte(messages[2].Content), &structured); err != nil {
		return "assistant content is not valid JSON"
	}

	if err := compiled.Validate(structured); err != nil {
		return fmt.Sprintf("assistant content does not match response schema: %v", err)
	}

	return ""
}
