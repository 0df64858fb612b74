// Package node holds the immutable configuration tree.
//
// A tree is built from three node types: Leaf, Map and Array. Nodes are values
// with unexported fields; constructors copy their input and no method mutates a
// node, so trees can be shared freely between goroutines and between the old
// and new versions of a merged configuration.
package node
