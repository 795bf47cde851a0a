package main

import (
	"context"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/vango-dev/vlite/internal/config"
	"github.com/vango-dev/vlite/internal/errors"
	"github.com/vango-dev/vlite/pkg/dom/memdom"
	"github.com/vango-dev/vlite/pkg/markup"
	"github.com/vango-dev/vlite/pkg/registry"
	"github.com/vango-dev/vlite/pkg/runtime"
	"github.com/vango-dev/vlite/pkg/snapshot"
	"github.com/vango-dev/vlite/pkg/vdom"
)

// project is the resolved configuration plus the template data.
type project struct {
	cfg      *config.Config
	compiler *markup.Compiler
	data     map[string]any
}

// loadProject reads vlite.json from dir. A missing file yields defaults.
// dataFlag overrides the configured data file.
func loadProject(dir, dataFlag string) (*project, error) {
	cfg, err := config.Load(dir)
	if err != nil {
		e, ok := errors.As(err)
		if !ok || e.Code != errors.CodeConfigNotFound {
			return nil, err
		}
		cfg = config.New()
	}

	var opts []markup.Option
	if cfg.CacheSize > 0 {
		opts = append(opts, markup.WithCacheSize(cfg.CacheSize))
	}
	p := &project{
		cfg:      cfg,
		compiler: markup.New(registry.New(), opts...),
	}

	dataPath := cfg.Resolve(cfg.Data)
	if dataFlag != "" {
		dataPath = dataFlag
	}
	if dataPath != "" {
		if p.data, err = loadData(dataPath); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// loadData decodes a YAML (or JSON) mapping of slot values.
func loadData(path string) (map[string]any, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New(errors.CodeConfigNotFound).
			WithDetail("data file %s: %v", path, err)
	}
	data := map[string]any{}
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, errors.New(errors.CodeConfigParse).
			WithDetail("data file %s: %v", path, err).
			WithSuggestion("the data file must be a YAML or JSON mapping")
	}
	return data, nil
}

// templates returns args, or the configured template files when args is
// empty.
func (p *project) templates(args []string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	files, err := p.cfg.TemplateFiles()
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, errors.New(errors.CodeInvalidConfig).
			WithDetail("no template files given").
			WithSuggestion("pass a file or set \"templates\" in " + config.ConfigFileName)
	}
	return files, nil
}

// compile compiles one template file.
func (p *project) compile(path string) (*vdom.VNode, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New(errors.CodeConfigNotFound).WithDetail("template %s: %v", path, err)
	}
	node, err := p.compiler.CompileNamed(string(src), p.data)
	return node, inFile(err, path)
}

// newRuntime creates a runtime bound to a fresh in-memory document and
// returns it with the container to render into.
func (p *project) newRuntime(opts ...runtime.Option) (*runtime.Runtime, *memdom.Element) {
	doc := memdom.New()
	container := doc.CreateElement("div").(*memdom.Element)
	container.SetAttribute("id", "app")
	doc.Body().AppendChild(container)

	base := []runtime.Option{
		runtime.WithDocument(doc),
		runtime.WithCompiler(p.compiler),
		runtime.WithDebug(p.cfg.Debug),
		runtime.WithMaxPasses(p.cfg.MaxPasses),
	}
	return runtime.New(append(base, opts...)...), container
}

// renderFile mounts the template at path. The template is recompiled on
// every pass, so re-renders go through the compiler cache.
func (p *project) renderFile(rt *runtime.Runtime, container *memdom.Element, path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return errors.New(errors.CodeConfigNotFound).WithDetail("template %s: %v", path, err)
	}
	root := func(vdom.Props) *vdom.VNode {
		node, err := p.compiler.CompileNamed(string(src), p.data)
		if err != nil {
			panic(inFile(err, path))
		}
		return node
	}
	return rt.RenderNamed(templateName(path), root, container)
}

// mount is newRuntime followed by renderFile.
func (p *project) mount(path string, opts ...runtime.Option) (*runtime.Runtime, *memdom.Element, error) {
	rt, container := p.newRuntime(opts...)
	if err := p.renderFile(rt, container, path); err != nil {
		return nil, nil, err
	}
	return rt, container, nil
}

// snapshots opens the configured snapshot store.
func (p *project) snapshots() (snapshot.Store, error) {
	if s3cfg := p.cfg.Snapshot.S3; s3cfg != nil {
		return snapshot.NewS3Store(snapshot.NewS3Client(s3cfg.Region), s3cfg.Bucket, s3cfg.Prefix), nil
	}
	return snapshot.NewFileStore(p.cfg.Resolve(p.cfg.Snapshot.Dir))
}

// saveSnapshot captures the mounted tree under key.
func (p *project) saveSnapshot(ctx context.Context, rt *runtime.Runtime, key string) (*snapshot.Snapshot, error) {
	store, err := p.snapshots()
	if err != nil {
		return nil, err
	}
	return snapshot.Take(ctx, store, rt, key)
}

// templateName derives a component name from a file name.
func templateName(path string) string {
	base := filepath.Base(path)
	return base[:len(base)-len(filepath.Ext(base))]
}

// inFile records path as the file of a located compile error.
func inFile(err error, path string) error {
	if e, ok := errors.As(err); ok && e.Location != nil {
		e.Location.File = path
	}
	return err
}
