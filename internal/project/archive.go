package project

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Export writes the project files and its index entry to a zip archive.
func (m *Manager) Export(id, dest string) error {
	p, err := m.Get(id)
	if err != nil {
		return err
	}
	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	zw := zip.NewWriter(out)

	err = filepath.WalkDir(m.projectDir(id), func(fp string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, err := filepath.Rel(m.projectDir(id), fp)
		if err != nil {
			return err
		}
		return addFile(zw, filepath.ToSlash(rel), fp)
	})
	if err == nil {
		err = addInfo(zw, p)
	}
	if cerr := zw.Close(); err == nil {
		err = cerr
	}
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(dest)
		return fmt.Errorf("export %s: %w", id, err)
	}
	return nil
}

func addFile(zw *zip.Writer, name, src string) error {
	f, err := os.Open(src)
	if err != nil {
		return err
	}
	defer f.Close()
	w, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate})
	if err != nil {
		return err
	}
	_, err = io.Copy(w, f)
	return err
}

func addInfo(zw *zip.Writer, p Project) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return err
	}
	w, err := zw.Create(infoFile)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// Import unpacks an exported archive as a new project with a fresh id.
func (m *Manager) Import(src string) (Project, error) {
	zr, err := zip.OpenReader(src)
	if err != nil {
		return Project{}, err
	}
	defer zr.Close()

	var info *Project
	for _, f := range zr.File {
		if f.Name == infoFile {
			info, err = readInfo(f)
			if err != nil {
				return Project{}, err
			}
		}
	}
	if info == nil {
		return Project{}, fmt.Errorf("%s: missing %s", src, infoFile)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	id := newID(info.Name)
	dir := m.projectDir(id)
	if err := os.Mkdir(dir, 0o755); err != nil {
		return Project{}, err
	}
	for _, f := range zr.File {
		if f.Name == infoFile || f.FileInfo().IsDir() {
			continue
		}
		if err := extract(f, dir); err != nil {
			os.RemoveAll(dir)
			return Project{}, err
		}
	}

	now := time.Now().UTC()
	info.ID = id
	info.Imported = &now
	m.projects[id] = info
	if err := m.saveIndex(); err != nil {
		return Project{}, err
	}
	return *info, nil
}

func readInfo(f *zip.File) (*Project, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	var p Project
	if err := yaml.NewDecoder(rc).Decode(&p); err != nil {
		return nil, fmt.Errorf("parse %s: %w", infoFile, err)
	}
	if p.Name == "" {
		return nil, fmt.Errorf("%s has no project name", infoFile)
	}
	return &p, nil
}

func extract(f *zip.File, dir string) error {
	name := path.Clean(f.Name)
	if path.IsAbs(name) || name == ".." || strings.HasPrefix(name, "../") {
		return fmt.Errorf("archive entry %q escapes project directory", f.Name)
	}
	dest := filepath.Join(dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()
	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
