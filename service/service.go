// Package service owns the merged configuration trees.
//
// A Service keeps the containers loaded so far, in the order they were added,
// and one merged tree per distinct tag set. Every write computes a complete new
// snapshot and publishes it with a single atomic swap, so readers see either
// the previous or the next snapshot and never a partial merge. Writers are
// serialized by the Service.
package service

import (
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/0xalexb/hjarta-config/merge"
	"github.com/0xalexb/hjarta-config/navigate"
	"github.com/0xalexb/hjarta-config/node"
	"github.com/0xalexb/hjarta-config/postprocess"
	"github.com/0xalexb/hjarta-config/tag"
	"github.com/0xalexb/hjarta-config/token"
	"github.com/0xalexb/hjarta-config/validation"
)

// State describes whether any source has been merged.
type State int

const (
	// StateEmpty means no container has been added.
	StateEmpty State = iota
	// StateLoaded means at least one container has been added.
	StateLoaded
)

// String returns the state name.
func (s State) String() string {
	if s == StateLoaded {
		return "loaded"
	}

	return "empty"
}

type snapshot struct {
	version    uint64
	containers []node.Container
	// raw holds the merged trees before post-processing.
	raw        []navigate.Root
	roots      []navigate.Root
	processors []postprocess.Processor
}

// Service holds the published snapshot.
type Service struct {
	writeMu  sync.Mutex
	current  atomic.Pointer[snapshot]
	logger   *slog.Logger
	failFast bool
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithFailFast makes post-processing stop at the first error-level finding.
func WithFailFast(failFast bool) Option {
	return func(s *Service) {
		s.failFast = failFast
	}
}

// New creates an empty Service.
func New(opts ...Option) *Service {
	svc := &Service{logger: slog.Default()}

	for _, apply := range opts {
		apply(svc)
	}

	svc.current.Store(&snapshot{})

	return svc
}

// State reports whether any container was added.
func (s *Service) State() State {
	if len(s.current.Load().containers) == 0 {
		return StateEmpty
	}

	return StateLoaded
}

// Version increases with every published snapshot.
func (s *Service) Version() uint64 {
	return s.current.Load().version
}

// Roots returns the published tree of every tag set.
func (s *Service) Roots() []navigate.Root {
	return cloneRoots(s.current.Load().roots)
}

// Root returns the published tree for exactly tags.
func (s *Service) Root(tags tag.Tags) (node.Node, bool) {
	snap := s.current.Load()

	if i := rootIndex(snap.roots, tags); i >= 0 {
		return snap.roots[i].Node, true
	}

	return nil, false
}

// Containers returns the containers in the order they were added.
func (s *Service) Containers() []node.Container {
	containers := s.current.Load().containers
	out := make([]node.Container, len(containers))
	copy(out, containers)

	return out
}

// AddNode merges container over the tree of its tag set and publishes the
// result. Processors registered by PostProcess are applied to the new tree.
// It returns the published tree for the container's tags.
func (s *Service) AddNode(container node.Container) validation.Result[node.Node] {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	prev := s.current.Load()

	raw, merged, errs := mergeInto(cloneRoots(prev.raw), container)
	if merged == nil {
		return validation.Fail[node.Node](errs...)
	}

	roots, processErrs, ok := s.process(raw, prev.processors)
	errs = append(errs, processErrs...)

	if !ok {
		return validation.Fail[node.Node](errs...)
	}

	containers := make([]node.Container, len(prev.containers), len(prev.containers)+1)
	copy(containers, prev.containers)

	next := s.publish(prev, append(containers, container), raw, roots, prev.processors)

	s.logger.Debug("configuration node added",
		slog.String("source", container.Source),
		slog.String("tags", container.Tags.String()),
		slog.Int("errors", len(errs)))

	return validation.Ok(next.roots[rootIndex(next.roots, container.Tags)].Node, errs...)
}

// ReloadNode replaces the container with the same ID and recomputes every
// tree from all containers in their original order.
func (s *Service) ReloadNode(container node.Container) validation.Result[node.Node] {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	prev := s.current.Load()

	position := -1

	for i, existing := range prev.containers {
		if existing.ID == container.ID {
			position = i

			break
		}
	}

	if position < 0 {
		return validation.Fail[node.Node](validation.New(validation.UnknownContainer, "").
			WithElement(container.ID).
			WithSource(container.Source))
	}

	containers := make([]node.Container, len(prev.containers))
	copy(containers, prev.containers)
	containers[position] = container

	var (
		raw  []navigate.Root
		errs []validation.Error
	)

	for _, existing := range containers {
		var mergeErrs []validation.Error

		raw, _, mergeErrs = mergeInto(raw, existing)
		errs = append(errs, mergeErrs...)
	}

	roots, processErrs, ok := s.process(raw, prev.processors)
	errs = append(errs, processErrs...)

	if !ok {
		return validation.Fail[node.Node](errs...)
	}

	next := s.publish(prev, containers, raw, roots, prev.processors)

	s.logger.Debug("configuration node reloaded",
		slog.String("source", container.Source),
		slog.Int("errors", len(errs)))

	return validation.Ok(next.roots[rootIndex(next.roots, container.Tags)].Node, errs...)
}

// NavigateToNode resolves tokens against the published trees eligible for
// tags. path is used in findings. Object names match keys case-insensitively.
func (s *Service) NavigateToNode(path string, tokens []token.Token, tags tag.Tags) validation.Result[node.Node] {
	snap := s.current.Load()
	if len(snap.roots) == 0 {
		if path == "" {
			path = token.Path(tokens)
		}

		return validation.Fail[node.Node](validation.New(validation.NoResultsFoundForPath, path))
	}

	return navigate.Tagged(snap.roots, tags, path, tokens)
}

// PostProcess runs processors over every leaf of the merged trees and
// publishes the processed trees. The processors replace any earlier ones and
// are applied again whenever a container is added or reloaded; processing
// always starts from the unprocessed merge.
func (s *Service) PostProcess(processors []postprocess.Processor) validation.Result[[]navigate.Root] {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	prev := s.current.Load()

	roots, errs, ok := s.process(prev.raw, processors)
	if !ok {
		return validation.Fail[[]navigate.Root](errs...)
	}

	s.publish(prev, prev.containers, prev.raw, roots, processors)

	return validation.Ok(cloneRoots(roots), errs...)
}

func (s *Service) process(raw []navigate.Root, processors []postprocess.Processor) ([]navigate.Root, []validation.Error, bool) {
	if len(processors) == 0 {
		return raw, nil, true
	}

	roots := make([]navigate.Root, 0, len(raw))

	var errs []validation.Error

	for _, root := range raw {
		processed := postprocess.Apply(root.Node, root.Tags, processors, s.failFast)
		errs = append(errs, processed.Errors()...)

		tree, ok := processed.Value()
		if !ok {
			return nil, errs, false
		}

		roots = append(roots, navigate.Root{Tags: root.Tags, Node: tree})
	}

	return roots, errs, true
}

func (s *Service) publish(
	prev *snapshot,
	containers []node.Container,
	raw, roots []navigate.Root,
	processors []postprocess.Processor,
) *snapshot {
	next := &snapshot{
		version:    prev.version + 1,
		containers: containers,
		raw:        raw,
		roots:      roots,
		processors: processors,
	}

	s.current.Store(next)

	return next
}

// mergeInto merges container into the root of its tag set, appending a new
// root when the tag set is new. roots is modified in place.
func mergeInto(roots []navigate.Root, container node.Container) ([]navigate.Root, node.Node, []validation.Error) {
	tree := container.Root
	if tree == nil {
		tree = node.NewMap(nil)
	}

	i := rootIndex(roots, container.Tags)
	if i < 0 {
		return append(roots, navigate.Root{Tags: container.Tags, Node: tree}), tree, nil
	}

	merged := merge.Merge(roots[i].Node, tree)

	result, ok := merged.Value()
	if !ok {
		return roots, nil, merged.Errors()
	}

	roots[i].Node = result

	return roots, result, withSource(merged.Errors(), container.Source)
}

func rootIndex(roots []navigate.Root, tags tag.Tags) int {
	for i, root := range roots {
		if root.Tags.Equal(tags) {
			return i
		}
	}

	return -1
}

func cloneRoots(roots []navigate.Root) []navigate.Root {
	out := make([]navigate.Root, len(roots))
	copy(out, roots)

	return out
}

func withSource(errs []validation.Error, source string) []validation.Error {
	for i := range errs {
		errs[i] = errs[i].WithSource(source)
	}

	return errs
}
