package prompts

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/eser/ajan/logfx"
)

var ErrNoPrompts = errors.New("prompt file contains no prompts")

type Service struct {
	Config *Config
	logger *logfx.Logger
}

func NewService(config *Config, logger *logfx.Logger) *Service {
	return &Service{Config: config, logger: logger}
}

// Load reads newline-delimited prompts from the configured file, preserving
// their order. Blank lines are skipped.
func (s *Service) Load() ([]string, error) {
	return s.LoadFile(s.Config.Path)
}

// LoadFile reads newline-delimited prompts from the given file.
func (s *Service) LoadFile(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open prompt file %s: %w", path, err)
	}
	defer file.Close() //nolint:errcheck

	var prompts []string

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		prompts = append(prompts, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read prompt file %s: %w", path, err)
	}

	if len(prompts) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoPrompts, path)
	}

	s.logger.Info("[Prompts] Prompts loaded", "module", "prompts", "path", path, "count", len(prompts))

	return prompts, nil
}
