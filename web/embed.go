package web

import "embed"

// TemplateFS 页面模板
//
//go:embed templates/*.html
var TemplateFS embed.FS
