package check

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/broady/objmodel"
	"gopkg.in/yaml.v3"
)

type Cmd struct {
	Manifest string   `arg:"" help:"YAML manifest of enums, traits and types." type:"existingfile"`
	Config   string   `help:"Registry config file (YAML)." short:"c" type:"path"`
	Set      []string `help:"Override a config field (key=value)." short:"s"`
	Watch    bool     `help:"Watch the manifest and re-check on changes." short:"w"`
}

func (c *Cmd) Run() error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Level()}))

	if !c.Watch {
		return c.checkFile(os.Stdout, cfg, logger)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return watch(ctx, c.Manifest, func() {
		if err := c.checkFile(os.Stdout, cfg, logger); err != nil {
			fmt.Fprintf(os.Stderr, "✗ %v\n", err)
		}
	})
}

func (c *Cmd) loadConfig() (objmodel.Config, error) {
	cfg := objmodel.DefaultConfig()
	if c.Config != "" {
		loaded, err := objmodel.LoadConfig(c.Config)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}
	overrides, err := objmodel.ParseOverrides(c.Set)
	if err != nil {
		return cfg, err
	}
	if err := objmodel.ApplyOverrides(&cfg, overrides); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Cmd) checkFile(w io.Writer, cfg objmodel.Config, logger *slog.Logger) error {
	data, err := os.ReadFile(c.Manifest)
	if err != nil {
		return err
	}
	return Check(w, data, cfg, logger)
}

// Check declares everything in the manifest into a fresh registry and
// writes one line per enum and type. It stops at the first failure.
func Check(w io.Writer, data []byte, cfg objmodel.Config, logger *slog.Logger) error {
	m, err := ParseManifest(data)
	if err != nil {
		return err
	}

	reg := objmodel.NewRegistry().WithConfig(cfg)
	if logger != nil {
		reg.WithLogger(logger)
	}

	err = pairs(&m.Enums, func(name string, value *yaml.Node) error {
		var values []any
		if err := value.Decode(&values); err != nil {
			return fmt.Errorf("enum %s: line %d: %w", name, value.Line, err)
		}
		if _, err := reg.DeclareEnum(name, values...); err != nil {
			return fmt.Errorf("enum %s: %w", name, err)
		}
		fmt.Fprintf(w, "✓ enum %s: %d values\n", name, len(values))
		return nil
	})
	if err != nil {
		return err
	}

	traits := make(map[string]*objmodel.Body)
	err = pairs(&m.Traits, func(name string, value *yaml.Node) error {
		body, err := decodeBody(value, reg)
		if err != nil {
			return fmt.Errorf("trait %s: %w", name, err)
		}
		traits[name] = body
		return nil
	})
	if err != nil {
		return err
	}

	for _, t := range m.Types {
		d, err := declare(reg, t, traits)
		if err != nil {
			return fmt.Errorf("%s: %w", t.Name, err)
		}
		fmt.Fprintln(w, summary(d))
	}

	fmt.Fprintf(w, "✓ %d types, %d enums\n", len(reg.Types()), len(reg.Enums()))
	return nil
}

func declare(reg *objmodel.Registry, t Type, traits map[string]*objmodel.Body) (*objmodel.TypeDescriptor, error) {
	body, err := decodeBody(&t.Body, reg)
	if err != nil {
		return nil, err
	}
	params := objmodel.Parameters{Abstract: t.Abstract, Final: t.Final}
	if t.Extends != "" {
		params.Extends = t.Extends
	}
	for _, name := range t.Implements {
		params.Implements = append(params.Implements, name)
	}
	for _, name := range t.Uses {
		trait, ok := traits[name]
		if !ok {
			return nil, fmt.Errorf("unknown trait %s", name)
		}
		params.Uses = append(params.Uses, trait)
	}
	return reg.Declare(objmodel.Declaration{
		Name:        t.Name,
		Parameters:  params,
		Body:        body,
		IsInterface: t.Interface,
	})
}

// summary renders a descriptor as one line, for example
// "✓ class Square extends Shape implements Drawable: 6 members (4 methods)".
func summary(d *objmodel.TypeDescriptor) string {
	var b strings.Builder
	b.WriteString("✓ ")
	switch {
	case d.IsInterface():
		b.WriteString("interface ")
	case d.IsAbstract():
		b.WriteString("abstract class ")
	case d.IsFinal():
		b.WriteString("final class ")
	default:
		b.WriteString("class ")
	}
	b.WriteString(d.Name())
	if p, ok := d.Parent(); ok {
		b.WriteString(" extends ")
		b.WriteString(p.Name())
	}
	if ifaces := d.Interfaces(); len(ifaces) > 0 {
		b.WriteString(" implements ")
		b.WriteString(strings.Join(ifaces, ", "))
	}

	members := d.Members()
	methods := 0
	for _, name := range members {
		if d.IsMethod(name) {
			methods++
		}
	}
	fmt.Fprintf(&b, ": %d members (%d methods)", len(members), methods)
	return b.String()
}
