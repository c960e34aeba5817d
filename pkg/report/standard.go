package report

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/devicelab-dev/dirspec/pkg/spec"
	billy "github.com/go-git/go-billy/v5"
)

// StandardFile is the default name of the project-wide standard document.
const StandardFile = "DIRECTORY_STANDARD.md"

// StandardData contains all data needed for the standard template.
type StandardData struct {
	Project     string
	Description string
	Diagram     string // Empty when the spec declares no flow
	Stages      []StageLine
}

// StageLine is one bullet of the stage list.
type StageLine struct {
	ID   string
	Desc string
}

var standardTmpl = template.Must(template.New("standard").Parse(standardTemplate))

// RenderStandard renders the directory standard document for s.
func RenderStandard(s *spec.Specification) (string, error) {
	data := StandardData{
		Project:     s.Project,
		Description: strings.TrimSpace(s.Description),
	}
	if len(s.Flow) > 0 {
		data.Diagram = RenderMermaid(s.Flow)
	}
	for _, st := range s.Stages {
		data.Stages = append(data.Stages, StageLine{ID: st.ID, Desc: oneLine(st.Desc)})
	}

	var buf bytes.Buffer
	if err := standardTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// WriteStandard renders the standard document and writes it to name on fs.
func WriteStandard(fs billy.Basic, name string, s *spec.Specification) error {
	content, err := RenderStandard(s)
	if err != nil {
		return fmt.Errorf("render standard: %w", err)
	}
	if err := WriteDocument(fs, name, []byte(content)); err != nil {
		return fmt.Errorf("write standard: %w", err)
	}
	return nil
}

// oneLine collapses whitespace so multi-line YAML text fits a bullet.
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

const standardTemplate = `# Directory Standard: {{.Project}}
{{- if .Description}}

{{.Description}}
{{- end}}
{{- if .Diagram}}

## Processing flow

{{.Diagram}}
{{- end}}

## Stages

{{range .Stages}}- **{{.ID}}**{{if .Desc}} - {{.Desc}}{{end}}
{{end}}`
