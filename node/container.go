package node

import (
	"github.com/0xalexb/hjarta-config/tag"

	"github.com/google/uuid"
)

// Container pairs the tree built from one source with the source identity and
// tags. A reload produces a new container with the same ID.
type Container struct {
	ID     string
	Source string
	Tags   tag.Tags
	Root   Node
}

// NewContainer wraps root with a fresh identity.
func NewContainer(source string, tags tag.Tags, root Node) Container {
	return Container{
		ID:     uuid.NewString(),
		Source: source,
		Tags:   tags,
		Root:   root,
	}
}

// WithRoot returns a copy of c holding root, keeping its identity and tags.
func (c Container) WithRoot(root Node) Container {
	c.Root = root

	return c
}
