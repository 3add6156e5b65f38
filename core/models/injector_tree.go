package models

import (
	"fmt"

	"github.com/tristendillon/injscope/core/logger"
)

type MergedInjectorTreeNode struct {
	Injector SerializedInjector        `json:"injector" yaml:"injector"`
	Children []*MergedInjectorTreeNode `json:"children" yaml:"children"`

	// Ancestry is the most-specific-first path from this node up to the root,
	// as recorded by the path that created the node.
	Ancestry SerializedPath `json:"-" yaml:"-"`
	Depth    int            `json:"-" yaml:"-"`
}

type InjectorTree struct {
	Root  *MergedInjectorTreeNode
	Paths int
}

func NewInjectorTree() *InjectorTree {
	return &InjectorTree{}
}

func (it *InjectorTree) Size() int {
	count := 0
	it.Walk(func(*MergedInjectorTreeNode) { count++ })
	return count
}

// Walk visits nodes depth first, parents before children.
func (it *InjectorTree) Walk(visit func(node *MergedInjectorTreeNode)) {
	if it.Root == nil {
		return
	}
	var walk func(node *MergedInjectorTreeNode)
	walk = func(node *MergedInjectorTreeNode) {
		visit(node)
		for _, child := range node.Children {
			walk(child)
		}
	}
	walk(it.Root)
}

// Flatten returns one most-specific-first path per leaf.
func (it *InjectorTree) Flatten() []SerializedPath {
	if it.Root == nil {
		return nil
	}
	var paths []SerializedPath
	var walk func(node *MergedInjectorTreeNode, rootward SerializedPath)
	walk = func(node *MergedInjectorTreeNode, rootward SerializedPath) {
		current := make(SerializedPath, 0, len(rootward)+1)
		current = append(current, node.Injector)
		current = append(current, rootward...)
		if len(node.Children) == 0 {
			paths = append(paths, current)
			return
		}
		for _, child := range node.Children {
			walk(child, current)
		}
	}
	walk(it.Root, nil)
	return paths
}

func (it *InjectorTree) PrintTree(level logger.LogLevel) {
	if it.Root == nil {
		logger.GetLogFromLevel(level)("(empty injector tree)")
		return
	}
	it.printNode(it.Root, "", level)
}

func (it *InjectorTree) printNode(node *MergedInjectorTreeNode, prefix string, level logger.LogLevel) {
	importInfo := ""
	if len(node.Injector.ImportPath) > 0 {
		names := make([]string, len(node.Injector.ImportPath))
		for i, imp := range node.Injector.ImportPath {
			names[i] = imp.Name
		}
		importInfo = fmt.Sprintf(" (imports: %v)", names)
	}
	logger.GetLogFromLevel(level)("%s%s [%s] %s%s", prefix, node.Injector.Name, node.Injector.Type, node.Injector.ID, importInfo)

	for _, child := range node.Children {
		it.printNode(child, prefix+"  ", level)
	}
}
