package output

import (
	"github.com/disiqueira/gotree/v3"
)

// LibraryTree renders the registered modules and their configurations
// as a tree rooted at the library itself.
type LibraryTree struct {
	tree    gotree.Tree
	modules map[string]gotree.Tree
}

func NewLibraryTree(rootLabel string) LibraryTree {
	return LibraryTree{tree: gotree.New(rootLabel), modules: make(map[string]gotree.Tree)}
}

func (t LibraryTree) InsertModule(name string, label string) {
	t.modules[name] = t.tree.Add(label)
}

func (t LibraryTree) InsertConfiguration(module string, label string) {
	node := t.modules[module]
	if node == nil {
		node = t.tree.Add(module)
		t.modules[module] = node
	}
	node.Add(label)
}

func (t LibraryTree) Render() string {
	return t.tree.Print()
}
