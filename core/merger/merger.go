package merger

import (
	"errors"
	"fmt"

	"github.com/tristendillon/injscope/core/logger"
	"github.com/tristendillon/injscope/core/models"
)

var (
	ErrEmptyPath    = errors.New("empty resolution path")
	ErrRootMismatch = errors.New("path does not share the tree root")
)

type Options struct {
	// CollapseSiblings merges element injectors that carry the same label and
	// resolve through identical ancestor injectors, e.g. repeated list items.
	CollapseSiblings bool
}

type Merger struct {
	options Options
}

func New(options Options) *Merger {
	return &Merger{options: options}
}

// Merge folds paths into a single tree. Paths that cannot be inserted are
// reported through the joined error; the rest still form the tree.
func (m *Merger) Merge(paths []models.SerializedPath) (*models.InjectorTree, error) {
	tree := models.NewInjectorTree()
	var errs []error
	for i, path := range paths {
		if err := m.Insert(tree, path); err != nil {
			errs = append(errs, fmt.Errorf("path %d: %w", i, err))
		}
	}
	logger.Debug("Merged %d paths into %d nodes", tree.Paths, tree.Size())
	return tree, errors.Join(errs...)
}

// Insert walks the tree from its root, descending into an equal child for each
// record of path (taken root first) and appending a new child when none exists.
func (m *Merger) Insert(tree *models.InjectorTree, path models.SerializedPath) error {
	if len(path) == 0 {
		return ErrEmptyPath
	}

	last := len(path) - 1
	if tree.Root == nil {
		tree.Root = newNode(path, last, 0)
	} else if m.Equal(tree.Root, path[last], path[last:]) {
		m.represent(tree.Root, path, last)
	} else {
		return fmt.Errorf("%w: %s (%s) vs %s (%s)", ErrRootMismatch,
			path[last].Name, path[last].ID, tree.Root.Injector.Name, tree.Root.Injector.ID)
	}

	current := tree.Root
	for depth := 1; depth <= last; depth++ {
		index := last - depth
		candidate := path[index]
		ancestry := path[index:]

		var next *models.MergedInjectorTreeNode
		for _, child := range current.Children {
			if m.Equal(child, candidate, ancestry) {
				next = child
				m.represent(next, path, index)
				break
			}
		}
		if next == nil {
			next = newNode(path, index, depth)
			current.Children = append(current.Children, next)
		}
		current = next
	}

	tree.Paths++
	return nil
}

// Equal applies the active equivalence rule between an existing node and a
// candidate record whose most-specific-first ancestry is given.
func (m *Merger) Equal(node *models.MergedInjectorTreeNode, candidate models.SerializedInjector, ancestry models.SerializedPath) bool {
	if node.Injector.ID == candidate.ID {
		return true
	}
	if !m.options.CollapseSiblings {
		return false
	}
	if node.Injector.Type != models.KindElement || candidate.Type != models.KindElement {
		return false
	}
	if node.Injector.Name != candidate.Name || len(node.Ancestry) != len(ancestry) {
		return false
	}
	for i := 1; i < len(ancestry); i++ {
		if node.Ancestry[i].ID != ancestry[i].ID {
			return false
		}
	}
	return true
}

// represent keeps the smallest id among collapsed siblings on the node, so the
// merged tree does not depend on insertion order. Collapsed records agree on
// every ancestor id, so swapping the recorded ancestry never changes a match.
func (m *Merger) represent(node *models.MergedInjectorTreeNode, path models.SerializedPath, index int) {
	if path[index].ID >= node.Injector.ID {
		return
	}
	node.Injector = path[index]
	node.Ancestry = make(models.SerializedPath, len(path)-index)
	copy(node.Ancestry, path[index:])
}

func newNode(path models.SerializedPath, index, depth int) *models.MergedInjectorTreeNode {
	ancestry := make(models.SerializedPath, len(path)-index)
	copy(ancestry, path[index:])
	return &models.MergedInjectorTreeNode{
		Injector: path[index],
		Ancestry: ancestry,
		Depth:    depth,
	}
}
