package scaffold

import (
	"bytes"
	"path"
	"strings"
	"text/template"

	"github.com/devicelab-dev/dirspec/pkg/spec"
)

// DocFile is the default name of the per-directory rules document.
const DocFile = "README.md"

// ReadmeData contains all data needed for the per-directory template.
type ReadmeData struct {
	Path       string
	StageID    string
	StageDesc  string
	Allow      []string
	Notes      string
	Script     string
	ScriptPath string
}

var readmeTmpl = template.Must(template.New("readme").Parse(readmeTemplate))

// RenderReadme renders the rules document for one directory record.
func RenderReadme(r spec.Record) (string, error) {
	dir := r.Dir.CleanPath()
	data := ReadmeData{
		Path:      dir,
		StageID:   r.StageID,
		StageDesc: strings.Join(strings.Fields(r.StageDesc), " "),
		Allow:     r.Dir.Allow,
		Notes:     strings.TrimSpace(r.Dir.Notes),
		Script:    r.Dir.Script,
	}
	if data.Script != "" {
		data.ScriptPath = ScriptPath(dir, data.Script)
	}

	var buf bytes.Buffer
	if err := readmeTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// ScriptPath is where a companion script is placed inside its directory.
func ScriptPath(dir, script string) string {
	return path.Join(spec.CleanPath(dir), path.Base(script))
}

const readmeTemplate = `# {{.Path}}

**Stage:** ` + "`{{.StageID}}`" + `{{if .StageDesc}} - {{.StageDesc}}{{end}}

## Allowed files
{{if .Allow}}
{{range .Allow}}- ` + "`{{.}}`" + `
{{end}}{{else}}
No restrictions: any file may be placed here.
{{end}}
{{- if .Notes}}
## Notes

{{.Notes}}
{{end}}
{{- if .Script}}
## Companion script

This directory expects the script ` + "`{{.Script}}`" + ` at ` + "`{{.ScriptPath}}`" + `.
{{end}}`
