package web

import (
	"embed"
	"html/template"

	"github.com/Masterminds/sprig/v3"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// parseTemplates carrega os templates HTML embutidos no binario,
// com as funcoes auxiliares do sprig disponiveis.
func parseTemplates() (*template.Template, error) {
	return template.New("").Funcs(sprig.HtmlFuncMap()).ParseFS(templateFS, "templates/*.tmpl")
}
