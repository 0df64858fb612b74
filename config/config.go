package config

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"

	"go.uber.org/multierr"

	"github.com/0xalexb/hjarta-config/builder"
	"github.com/0xalexb/hjarta-config/lexer"
	"github.com/0xalexb/hjarta-config/loader"
	"github.com/0xalexb/hjarta-config/logging"
	"github.com/0xalexb/hjarta-config/navigate"
	"github.com/0xalexb/hjarta-config/node"
	"github.com/0xalexb/hjarta-config/postprocess"
	"github.com/0xalexb/hjarta-config/reload"
	"github.com/0xalexb/hjarta-config/service"
	"github.com/0xalexb/hjarta-config/source"
	"github.com/0xalexb/hjarta-config/tag"
	"github.com/0xalexb/hjarta-config/validation"
)

// Validator defines an interface for validating configuration structures.
type Validator interface {
	Validate() error
}

// Defaulter defines an interface for setting default values in configuration structures.
type Defaulter interface {
	SetDefaults() (changed bool)
}

// Config is the loaded, merged configuration. Lookups are safe for concurrent
// use with each other and with Reload.
type Config struct {
	// mu serializes Load and Reload.
	mu  sync.Mutex
	svc atomic.Pointer[service.Service]

	registry   *loader.Registry
	sources    []source.Source
	containers map[string]node.Container
	lexer      *lexer.Lexer
	policy     validation.Policy
	processors []postprocess.Processor
	logger     *slog.Logger
	failFast   bool
	watch      bool
	listeners  *reload.Listeners
}

// New creates a Config. Nothing is read until Load.
func New(opts ...Option) *Config {
	var options Options

	for _, apply := range opts {
		apply(&options)
	}

	if options.Lexer == nil {
		options.Lexer = lexer.Default()
	}

	if options.Logger == nil {
		options.Logger = slog.Default()
	}

	registry := loader.Default()
	registry.Register(options.Loaders...)

	cfg := &Config{
		registry:   registry,
		sources:    append([]source.Source(nil), options.Sources...),
		containers: make(map[string]node.Container, len(options.Sources)),
		lexer:      options.Lexer,
		policy:     options.Policy,
		processors: options.processors(),
		logger:     options.Logger,
		failFast:   options.FailFast,
		watch:      options.Watch,
		listeners:  reload.NewListeners(),
	}

	cfg.svc.Store(cfg.newService())

	return cfg
}

// Load reads every source in order and publishes the merged, post-processed
// trees. Non-fatal findings are logged. If a source cannot be read or a
// finding is fatal under the policy, Load returns a *LoadError wrapping
// ErrLoadFailed and nothing is served.
func (c *Config) Load(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.svc.Load().State() == service.StateLoaded {
		return ErrAlreadyLoaded
	}

	var (
		sourceErrs error
		findings   []validation.Error
		containers = make([]node.Container, 0, len(c.sources))
	)

	for _, src := range c.sources {
		tree, errs, err := c.build(ctx, src)
		findings = append(findings, errs...)

		if err != nil {
			sourceErrs = multierr.Append(sourceErrs, err)

			continue
		}

		containers = append(containers, node.NewContainer(src.Name(), src.Tags(), tree))
	}

	if err := c.check(findings, sourceErrs); err != nil {
		return err
	}

	staged := c.newService()

	for _, container := range containers {
		added := staged.AddNode(container)
		findings = append(findings, added.Errors()...)
	}

	processed := staged.PostProcess(c.processors)
	findings = append(findings, processed.Errors()...)

	if err := c.check(findings, nil); err != nil {
		return err
	}

	c.svc.Store(staged)

	for i, container := range containers {
		c.containers[c.sources[i].ID()] = container
	}

	c.logFindings(findings)
	c.logger.Info("configuration loaded",
		slog.Int("sources", len(c.sources)),
		slog.Int("trees", len(staged.Roots())),
		slog.Int("findings", len(findings)))

	return nil
}

// Reload reads the source with sourceID again, recomputes the merged trees
// and notifies reload listeners. Fatal findings of the reloaded source keep
// the previous configuration in place.
func (c *Config) Reload(ctx context.Context, sourceID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	src, ok := c.source(sourceID)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownSource, sourceID)
	}

	container, ok := c.containers[sourceID]
	if !ok {
		return ErrNotLoaded
	}

	tree, findings, buildErr := c.build(ctx, src)
	if err := c.check(findings, buildErr); err != nil {
		return err
	}

	container = container.WithRoot(tree)

	svc := c.svc.Load()

	reloaded := svc.ReloadNode(container)
	if !reloaded.HasResults() {
		return newLoadError(reloaded.Errors(), nil)
	}

	c.containers[sourceID] = container

	c.logFindings(append(findings, reloaded.Errors()...))
	c.logger.Info("configuration reloaded",
		slog.String("source", src.Name()),
		slog.Uint64("version", svc.Version()))

	c.listeners.Notify(reload.Event{
		SourceID: sourceID,
		Source:   src.Name(),
		Tags:     src.Tags(),
		Version:  svc.Version(),
	})

	return nil
}

// AddReloadListener registers listener until the returned Registration is released.
func (c *Config) AddReloadListener(listener reload.Listener) *reload.Registration {
	return c.listeners.Add(listener)
}

// Sources returns the configured sources in load order.
func (c *Config) Sources() []source.Source {
	return append([]source.Source(nil), c.sources...)
}

// Version increases with every published change.
func (c *Config) Version() uint64 {
	return c.svc.Load().Version()
}

// Roots returns the published tree of every tag set.
func (c *Config) Roots() []navigate.Root {
	return c.svc.Load().Roots()
}

// Root returns the published tree whose tags equal tags exactly.
func (c *Config) Root(tags tag.Tags) (node.Node, bool) {
	return c.svc.Load().Root(tags)
}

// GetNode returns the node at path, looked up with the given tags.
func (c *Config) GetNode(path string, tags tag.Tags) validation.Result[node.Node] {
	scanned := c.lexer.Scan(path)

	tokens, ok := scanned.Value()
	if !ok || validation.HasLevel(scanned.Errors(), validation.LevelError) {
		return validation.Fail[node.Node](scanned.Errors()...)
	}

	found := c.svc.Load().NavigateToNode(path, tokens, tags)

	errs := slices.Concat(scanned.Errors(), found.Errors())
	if value, ok := found.Value(); ok {
		return validation.Ok(value, errs...)
	}

	return validation.Fail[node.Node](errs...)
}

func (c *Config) newService() *service.Service {
	return service.New(service.WithLogger(c.logger), service.WithFailFast(c.failFast))
}

func (c *Config) source(id string) (source.Source, bool) {
	for _, src := range c.sources {
		if src.ID() == id {
			return src, true
		}
	}

	return nil, false
}

func (c *Config) build(ctx context.Context, src source.Source) (node.Node, []validation.Error, error) {
	ld, err := c.registry.Resolve(src.Format())
	if err != nil {
		return nil, nil, fmt.Errorf("source %q: %w", src.Name(), err)
	}

	pairs, err := ld.Load(ctx, src)
	if err != nil {
		return nil, nil, fmt.Errorf("source %q: %w", src.Name(), err)
	}

	built := builder.New(
		builder.WithFailFast(c.failFast),
		builder.WithSource(src.Name()),
	).BuildPairs(ld.Lexer(), pairs)

	tree, ok := built.Value()
	if !ok {
		return node.NewMap(nil), built.Errors(), nil
	}

	c.logger.Debug("configuration source read",
		slog.String("source", src.Name()),
		slog.String("format", src.Format()),
		slog.Int("pairs", len(pairs)))

	return tree, built.Errors(), nil
}

func (c *Config) check(findings []validation.Error, sourceErrs error) error {
	fatal := c.policy.Fatal(findings)
	if len(fatal) == 0 && sourceErrs == nil {
		return nil
	}

	return newLoadError(fatal, sourceErrs)
}

// logFindings logs findings that did not stop the operation. Fatal findings
// only get here from a reload, where the merged trees are already published.
func (c *Config) logFindings(findings []validation.Error) {
	for _, finding := range findings {
		level := slog.LevelWarn
		if c.policy.IsFatal(finding) {
			level = slog.LevelError
		}

		c.logger.LogAttrs(context.Background(), level, "configuration finding", logging.Finding(finding))
	}
}
