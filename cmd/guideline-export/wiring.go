package main

import (
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"

	exportprom "github.com/a11y-reference/guideline-export/adapters/metrics/prometheus"
	exportpdf "github.com/a11y-reference/guideline-export/adapters/pdf"
	exportsqlite "github.com/a11y-reference/guideline-export/adapters/sqlite"
	exporttemplate "github.com/a11y-reference/guideline-export/adapters/template"
	"github.com/a11y-reference/guideline-export/config"
	"github.com/a11y-reference/guideline-export/export"
)

// serviceDeps are the per-command pieces that differ between export and serve.
type serviceDeps struct {
	Sink     export.ArtifactSink
	Logger   export.Logger
	Registry prometheus.Registerer
}

// buildService registers every renderer the configuration enables.
func buildService(cfg *config.Config, deps serviceDeps) (*export.Service, error) {
	renderers := export.NewRendererRegistry()

	templates, err := exporttemplate.NewPongo2Executor()
	if err != nil {
		return nil, err
	}
	if cfg.Template.Path != "" {
		source, err := os.ReadFile(cfg.Template.Path)
		if err != nil {
			return nil, fmt.Errorf("read template %q: %w", cfg.Template.Path, err)
		}
		if err := templates.Register(exporttemplate.DefaultTemplateName, string(source)); err != nil {
			return nil, err
		}
	}
	if err := renderers.Register(export.FormatHTML, exporttemplate.Renderer{Templates: templates}); err != nil {
		return nil, err
	}
	if err := renderers.Register(export.FormatSQLite, exportsqlite.Renderer{}); err != nil {
		return nil, err
	}

	svcCfg := export.ServiceConfig{
		Renderers: renderers,
		Sink:      deps.Sink,
		Logger:    deps.Logger,
	}

	if cfg.PDF.Enabled {
		documents, err := exportpdf.NewDocumentFactory(exportpdf.Options{
			PageSize:  cfg.PDF.PageSize,
			Landscape: cfg.PDF.Landscape,
		})
		if err != nil {
			return nil, err
		}
		svcCfg.Documents = documents
	}

	if cfg.Metrics.Enabled && deps.Registry != nil {
		hook, err := exportprom.NewHook(deps.Registry, exportprom.Options{Namespace: cfg.Metrics.Namespace})
		if err != nil {
			return nil, err
		}
		svcCfg.Metrics = hook
	}

	return export.NewService(svcCfg)
}
