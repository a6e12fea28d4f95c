package dashboard

import (
	"embed"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"flarepie/internal/telemetry"
)

//go:embed templates/*.json.tmpl
var templates embed.FS

const templateGlob = "templates/*.json.tmpl"

// data is what the dashboard templates see.
type data struct {
	SampleTable  string
	SummaryTable string
}

var funcMap = template.FuncMap{
	"env": func(key string) (string, error) {
		v := os.Getenv(key)
		if v == "" {
			return "", fmt.Errorf("environment variable %s not set", key)
		}
		return v, nil
	},
}

func parse() (*template.Template, error) {
	return template.New("dashboards").Funcs(funcMap).ParseFS(templates, templateGlob)
}

// Names lists the dashboards Render produces.
func Names() ([]string, error) {
	t, err := parse()
	if err != nil {
		return nil, err
	}
	var names []string
	for _, tpl := range t.Templates() {
		if strings.HasSuffix(tpl.Name(), ".tmpl") {
			names = append(names, strings.TrimSuffix(tpl.Name(), ".tmpl"))
		}
	}
	return names, nil
}

// Write renders the named dashboard to w.
func Write(w io.Writer, name string) error {
	t, err := parse()
	if err != nil {
		return err
	}
	tpl := t.Lookup(name + ".tmpl")
	if tpl == nil {
		return fmt.Errorf("unknown dashboard %q", name)
	}
	return tpl.Execute(w, data{SampleTable: telemetry.SampleTableName, SummaryTable: telemetry.SummaryTableName})
}

// Render writes every dashboard to outDir.
func Render(outDir string) error {
	names, err := Names()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}
	for _, name := range names {
		outPath := filepath.Join(outDir, name)
		f, err := os.Create(outPath)
		if err != nil {
			return err
		}
		if err := Write(f, name); err != nil {
			f.Close()
			os.Remove(outPath)
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
	}
	return nil
}
