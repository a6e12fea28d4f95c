package project

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"flarepie/internal/config"
)

// ErrNotFound is returned for unknown project ids or config names.
var ErrNotFound = errors.New("not found")

const (
	indexFile = "projects.yaml"
	infoFile  = "project_info.yaml"
)

// Project is one entry of the project index.
type Project struct {
	ID          string     `yaml:"id"`
	Name        string     `yaml:"name"`
	Description string     `yaml:"description,omitempty"`
	Tags        []string   `yaml:"tags,omitempty"`
	Created     time.Time  `yaml:"created"`
	Modified    time.Time  `yaml:"modified"`
	Imported    *time.Time `yaml:"imported,omitempty"`
	Configs     []string   `yaml:"configs"`
}

// Manager owns a projects directory: one subdirectory per project plus an
// index file.
type Manager struct {
	dir string

	mu       sync.Mutex
	projects map[string]*Project
}

// Open loads the index in dir, creating the directory if needed.
func Open(dir string) (*Manager, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	m := &Manager{dir: dir, projects: make(map[string]*Project)}
	data, err := os.ReadFile(filepath.Join(dir, indexFile))
	switch {
	case errors.Is(err, os.ErrNotExist):
		return m, nil
	case err != nil:
		return nil, err
	}
	var list []*Project
	if err := yaml.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("parse project index: %w", err)
	}
	for _, p := range list {
		m.projects[p.ID] = p
	}
	return m, nil
}

// Dir returns the projects directory.
func (m *Manager) Dir() string { return m.dir }

// Slug lowercases name and replaces anything outside [a-z0-9] with '_'.
func Slug(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "unnamed"
	}
	return b.String()
}

func newID(name string) string {
	return Slug(name) + "-" + uuid.NewString()[:8]
}

// Create makes a project seeded with the default engine configuration.
func (m *Manager) Create(name, description string, tags []string) (Project, error) {
	if strings.TrimSpace(name) == "" {
		return Project{}, fmt.Errorf("project name is required")
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	id := newID(name)
	if err := os.Mkdir(m.projectDir(id), 0o755); err != nil {
		return Project{}, err
	}
	now := time.Now().UTC()
	p := &Project{ID: id, Name: name, Description: description, Tags: tags, Created: now, Modified: now}
	m.projects[id] = p

	seed := config.Default()
	seed.Name = name
	seed.Description = description
	seed.Tags = tags
	if err := m.saveConfig(p, seed); err != nil {
		return Project{}, err
	}
	slog.Info("project created", "id", id, "dir", m.projectDir(id))
	return *p, nil
}

// Get returns a project by id.
func (m *Manager) Get(id string) (Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.projects[id]
	if !ok {
		return Project{}, fmt.Errorf("project %q: %w", id, ErrNotFound)
	}
	return *p, nil
}

// SaveConfig stores cfg in the project under the slug of its name.
func (m *Manager) SaveConfig(id string, cfg config.Engine) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.projects[id]
	if !ok {
		return fmt.Errorf("project %q: %w", id, ErrNotFound)
	}
	if cfg.Name == "" {
		return fmt.Errorf("engine configuration needs a name")
	}
	return m.saveConfig(p, cfg)
}

func (m *Manager) saveConfig(p *Project, cfg config.Engine) error {
	if err := config.Save(m.configPath(p.ID, cfg.Name), cfg); err != nil {
		return err
	}
	name := Slug(cfg.Name)
	found := false
	for _, c := range p.Configs {
		if c == name {
			found = true
			break
		}
	}
	if !found {
		p.Configs = append(p.Configs, name)
	}
	p.Modified = time.Now().UTC()
	return m.saveIndex()
}

// LoadConfig reads and validates a named configuration.
func (m *Manager) LoadConfig(id, name string) (*config.Engine, error) {
	m.mu.Lock()
	_, ok := m.projects[id]
	m.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("project %q: %w", id, ErrNotFound)
	}
	path := m.configPath(id, name)
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config %q in project %q: %w", name, id, ErrNotFound)
	}
	return config.Load(path, "")
}

// ConfigPath returns the file a named configuration is stored in.
func (m *Manager) ConfigPath(id, name string) string { return m.configPath(id, name) }

// List returns all projects ordered by creation time.
func (m *Manager) List() []Project {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Project, 0, len(m.projects))
	for _, p := range m.projects {
		out = append(out, *p)
	}
	sortProjects(out)
	return out
}

// Configs lists configuration names stored in a project.
func (m *Manager) Configs(id string) ([]string, error) {
	p, err := m.Get(id)
	if err != nil {
		return nil, err
	}
	return append([]string(nil), p.Configs...), nil
}

// Search matches query case-insensitively against name, description and tags.
func (m *Manager) Search(query string) []Project {
	q := strings.ToLower(query)
	var out []Project
	for _, p := range m.List() {
		if matches(p, q) {
			out = append(out, p)
		}
	}
	return out
}

func matches(p Project, q string) bool {
	if strings.Contains(strings.ToLower(p.Name), q) || strings.Contains(strings.ToLower(p.Description), q) {
		return true
	}
	for _, t := range p.Tags {
		if strings.Contains(strings.ToLower(t), q) {
			return true
		}
	}
	return false
}

// Delete removes the project directory and its index entry.
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.projects[id]; !ok {
		return fmt.Errorf("project %q: %w", id, ErrNotFound)
	}
	if err := os.RemoveAll(m.projectDir(id)); err != nil {
		return err
	}
	delete(m.projects, id)
	return m.saveIndex()
}

func (m *Manager) projectDir(id string) string {
	return filepath.Join(m.dir, id)
}

func (m *Manager) configPath(id, name string) string {
	return filepath.Join(m.projectDir(id), Slug(name)+".yaml")
}

// saveIndex writes the index; callers hold mu.
func (m *Manager) saveIndex() error {
	list := make([]Project, 0, len(m.projects))
	for _, p := range m.projects {
		list = append(list, *p)
	}
	sortProjects(list)
	data, err := yaml.Marshal(list)
	if err != nil {
		return err
	}
	tmp := filepath.Join(m.dir, indexFile+".tmp")
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, filepath.Join(m.dir, indexFile))
}

func sortProjects(ps []Project) {
	sort.Slice(ps, func(i, j int) bool {
		if !ps[i].Created.Equal(ps[j].Created) {
			return ps[i].Created.Before(ps[j].Created)
		}
		return ps[i].ID < ps[j].ID
	})
}
