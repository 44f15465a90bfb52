// Package seed loads the default requester and project lists into the store.
package seed

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rasilvabrandao-stack/FerramentasFlexmedicalKure/internal/models"
	"github.com/rasilvabrandao-stack/FerramentasFlexmedicalKure/internal/storage"
)

//go:embed defaults.yaml
var defaultDocument []byte

// Document is the YAML seed file.
type Document struct {
	Requesters []string `yaml:"requesters"`
	Projects   []string `yaml:"projects"`
}

// Result counts the records a seeding run created.
type Result struct {
	RequestersAdded int
	ProjectsAdded   int
}

// Store is the part of the store seeding writes to.
type Store interface {
	ListRequesters(ctx context.Context) ([]*models.Requester, error)
	AddRequester(ctx context.Context, requester *models.Requester) error
	ListProjects(ctx context.Context) ([]*models.Project, error)
	AddProjects(ctx context.Context, projects []*models.Project) error
}

// Parse decodes a seed document. Blank names are dropped.
func Parse(input []byte) (Document, error) {
	var doc Document
	if err := yaml.Unmarshal(input, &doc); err != nil {
		return Document{}, fmt.Errorf("decode seed document: %w", err)
	}
	doc.Requesters = compact(doc.Requesters)
	doc.Projects = compact(doc.Projects)
	return doc, nil
}

// Defaults returns the embedded document.
func Defaults() Document {
	doc, err := Parse(defaultDocument)
	if err != nil {
		panic(fmt.Sprintf("embedded seed document is invalid: %v", err))
	}
	return doc
}

// Load reads the document at path, or the embedded defaults when path is empty.
func Load(path string) (Document, error) {
	if path == "" {
		return Defaults(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("read seed file: %w", err)
	}
	return Parse(data)
}

// Apply adds every requester and project of doc that the store does not
// already have, comparing names ignoring case. Running it again adds nothing.
func Apply(ctx context.Context, store Store, doc Document) (Result, error) {
	var result Result

	requesters, err := store.ListRequesters(ctx)
	if err != nil {
		return result, fmt.Errorf("failed to list requesters: %w", err)
	}
	known := make(map[string]bool, len(requesters))
	for _, r := range requesters {
		known[models.FoldName(r.Name)] = true
	}

	for _, name := range doc.Requesters {
		key := models.FoldName(name)
		if known[key] {
			continue
		}
		err := store.AddRequester(ctx, &models.Requester{Name: name})
		if errors.Is(err, storage.ErrDuplicate) {
			continue
		}
		if err != nil {
			return result, fmt.Errorf("failed to add requester %q: %w", name, err)
		}
		known[key] = true
		result.RequestersAdded++
	}

	projects, err := store.ListProjects(ctx)
	if err != nil {
		return result, fmt.Errorf("failed to list projects: %w", err)
	}
	known = make(map[string]bool, len(projects))
	for _, p := range projects {
		known[models.FoldName(p.Name)] = true
	}

	var missing []*models.Project
	for _, name := range doc.Projects {
		key := models.FoldName(name)
		if known[key] {
			continue
		}
		known[key] = true
		missing = append(missing, &models.Project{Name: name})
	}
	if len(missing) > 0 {
		if err := store.AddProjects(ctx, missing); err != nil {
			return result, fmt.Errorf("failed to add projects: %w", err)
		}
		result.ProjectsAdded = len(missing)
	}

	if result.RequestersAdded > 0 || result.ProjectsAdded > 0 {
		slog.Info("Seed data loaded",
			"requesters_added", result.RequestersAdded,
			"projects_added", result.ProjectsAdded,
		)
	}
	return result, nil
}

func compact(names []string) []string {
	out := names[:0]
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			out = append(out, n)
		}
	}
	return out
}
