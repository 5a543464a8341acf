package imagegen

import (
	"fmt"
	"sort"

	"house-design-backend/internal/config"
	"house-design-backend/pkg/logger"
)

const (
	KindHuggingFace = "huggingface"
	KindOpenAI      = "openai"
)

// Registry resolves image providers by service name.
type Registry struct {
	generators     map[string]Generator
	defaultService string
}

func NewRegistry(cfg config.ImageConfig) (*Registry, error) {
	r := &Registry{
		generators:     make(map[string]Generator, len(cfg.Services)),
		defaultService: cfg.DefaultService,
	}

	for _, svc := range cfg.Services {
		if svc.Name == "" {
			return nil, fmt.Errorf("image service without a name")
		}
		if _, dup := r.generators[svc.Name]; dup {
			return nil, fmt.Errorf("image service %q configured twice", svc.Name)
		}

		switch svc.Kind {
		case KindHuggingFace, "":
			r.generators[svc.Name] = NewHuggingFaceClient(svc)
		case KindOpenAI:
			r.generators[svc.Name] = NewOpenAIClient(svc, cfg.Size)
		default:
			return nil, fmt.Errorf("image service %q has unsupported kind %q", svc.Name, svc.Kind)
		}

		if svc.Token == "" {
			logger.Warnf("Image service %s has no token configured", svc.Name)
		}
	}

	if r.defaultService != "" {
		if _, ok := r.generators[r.defaultService]; !ok {
			return nil, fmt.Errorf("default image service %q is not configured", r.defaultService)
		}
	}

	return r, nil
}

// Register adds or replaces a generator.
func (r *Registry) Register(g Generator) {
	r.generators[g.Name()] = g
}

// Get returns the named generator, or the default one for an empty name.
func (r *Registry) Get(name string) (Generator, error) {
	if name == "" {
		name = r.defaultService
	}
	g, ok := r.generators[name]
	if !ok {
		return nil, ErrUnknownService
	}
	return g, nil
}

func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.generators))
	for name := range r.generators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
