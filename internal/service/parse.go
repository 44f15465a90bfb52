package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rasilvabrandao-stack/FerramentasFlexmedicalKure/internal/models"
)

var errEmptyBatch = errors.New("nenhuma linha preenchida")

// ParseToolLines reads one tool per line as "Name:tag1,tag2". Blank lines
// are skipped. Tags are trimmed and empty ones dropped. A line with no colon,
// more than one colon, an empty name or no tags rejects the whole batch.
func ParseToolLines(text string) ([]*models.Tool, error) {
	var tools []*models.Tool
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		parts := strings.Split(line, ":")
		if len(parts) != 2 {
			return nil, fmt.Errorf("formato inválido na linha %q: use NomeFerramenta:patrimonio1,patrimonio2", line)
		}
		name := strings.TrimSpace(parts[0])

		var tags []string
		for _, tag := range strings.Split(parts[1], ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				tags = append(tags, tag)
			}
		}
		if name == "" || len(tags) == 0 {
			return nil, fmt.Errorf("dados inválidos na linha %q", line)
		}

		tools = append(tools, &models.Tool{Name: name, AssetTags: tags})
	}

	if len(tools) == 0 {
		return nil, errEmptyBatch
	}
	return tools, nil
}

// ParseNameLines reads one name per line, skipping blank lines.
func ParseNameLines(text string) ([]string, error) {
	var names []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			names = append(names, line)
		}
	}
	if len(names) == 0 {
		return nil, errEmptyBatch
	}
	return names, nil
}
