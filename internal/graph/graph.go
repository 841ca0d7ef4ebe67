package graph

import (
	"context"
	"fmt"

	"sdlcflow/internal/sdlc"
)

// NodeFunc executes one workflow step, mutating the state in place.
type NodeFunc func(ctx context.Context, state *sdlc.WorkflowState) error

// Node is a named step with a static edge to its successor.
type Node struct {
	Name string
	Run  NodeFunc
	Next string
}

// Graph is a linear-with-edges workflow: named nodes, one entry point,
// and a terminal sentinel node.
type Graph struct {
	nodes map[string]Node
	entry string
}

// NewGraph creates an empty graph with the given entry node name.
func NewGraph(entry string) *Graph {
	return &Graph{
		nodes: make(map[string]Node),
		entry: entry,
	}
}

// AddNode registers a node. Registering the same name twice is a bug.
func (g *Graph) AddNode(n Node) error {
	if n.Name == "" {
		return fmt.Errorf("node name is required")
	}
	if _, exists := g.nodes[n.Name]; exists {
		return fmt.Errorf("duplicate node: %s", n.Name)
	}
	g.nodes[n.Name] = n
	return nil
}

// Entry returns the entry node name.
func (g *Graph) Entry() string {
	return g.entry
}

// Lookup returns a node by name.
func (g *Graph) Lookup(name string) (Node, bool) {
	n, ok := g.nodes[name]
	return n, ok
}

// Validate checks that every edge points at a known node or the terminal
// sentinel, and that the entry exists.
func (g *Graph) Validate() error {
	if _, ok := g.nodes[g.entry]; !ok {
		return fmt.Errorf("entry node %q is not registered", g.entry)
	}
	for name, n := range g.nodes {
		if n.Next == "" {
			return fmt.Errorf("node %q has no successor", name)
		}
		if n.Next == sdlc.NodeDone {
			continue
		}
		if _, ok := g.nodes[n.Next]; !ok {
			return fmt.Errorf("node %q points at unknown node %q", name, n.Next)
		}
	}
	return nil
}
