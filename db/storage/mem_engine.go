package storage

import (
	"github.com/google/btree"
)

// MemEngine is a simple Engine backed by memory. Data is not written to
// disk. It is intended for testing and for tooling that has no node to talk
// to.
type MemEngine struct {
	trees map[string]*btree.BTree

	onApply func(count int)
}

type memItem struct {
	key   []byte
	value []byte
}

func (it memItem) Less(than btree.Item) bool {
	other := than.(memItem)
	return string(it.key) < string(other.key)
}

func NewMemEngine(onApply func(count int)) *MemEngine {
	return &MemEngine{
		trees: map[string]*btree.BTree{
			CfDefault:   btree.New(2),
			CfEncrypted: btree.New(2),
		},
		onApply: onApply,
	}
}

func (e *MemEngine) tree(cf string) *btree.BTree {
	t, ok := e.trees[cf]
	if !ok {
		t = btree.New(2)
		e.trees[cf] = t
	}
	return t
}

func (e *MemEngine) Write(batch []Modify) error {
	for _, m := range batch {
		switch data := m.Data.(type) {
		case Put:
			e.tree(data.Cf).ReplaceOrInsert(memItem{key: data.Key, value: data.Value})
		case Delete:
			e.tree(data.Cf).Delete(memItem{key: data.Key})
		}
	}
	if e.onApply != nil {
		e.onApply(len(batch))
	}
	return nil
}

func (e *MemEngine) GetCF(cf string, key []byte) ([]byte, error) {
	item := e.tree(cf).Get(memItem{key: key})
	if item == nil {
		return nil, nil
	}
	return item.(memItem).value, nil
}

func (e *MemEngine) Close() error {
	return nil
}
