package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/couchcryptid/geo-digest-service/internal/domain"
)

// loadRequest reads a summarize request from path, or from stdin when path is "-".
func loadRequest(path string, stdin io.Reader) (domain.SummarizeRequest, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return domain.SummarizeRequest{}, fmt.Errorf("read request: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if data, err = yamlToJSON(data); err != nil {
			return domain.SummarizeRequest{}, err
		}
	}
	return domain.ParseSummarizeRequest(domain.RawMessage{Value: data})
}

// yamlToJSON re-encodes a YAML document as JSON so feature decoding follows
// the same rules for both formats.
func yamlToJSON(data []byte) ([]byte, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode yaml request: %w", err)
	}
	out, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode yaml request as json: %w", err)
	}
	return out, nil
}
