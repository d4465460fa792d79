package store

import (
	"bytes"

	"github.com/google/btree"
	"github.com/iov-one/tokenswap/errors"
)

// collectItems returns all btree items within [start, end) in the
// requested order. A nil start or end means an open range.
func collectItems(bt *btree.BTree, start, end []byte, ascending bool) []btree.Item {
	var items []btree.Item
	add := func(item btree.Item) bool {
		items = append(items, item)
		return true
	}

	switch {
	case start == nil && end == nil:
		bt.Ascend(add)
	case start == nil:
		bt.AscendLessThan(bkey{end}, add)
	case end == nil:
		bt.AscendGreaterOrEqual(bkey{start}, add)
	default:
		bt.AscendRange(bkey{start}, bkey{end}, add)
	}

	if !ascending {
		for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
			items[i], items[j] = items[j], items[i]
		}
	}
	return items
}

// mergeIterator joins our cached items with those of the parent,
// taking into consideration overwrites and deletes.
type mergeIterator struct {
	cache     []btree.Item
	parent    Iterator
	ascending bool

	// next parent entry, already read but not returned yet
	parentKey, parentValue []byte
	hasParent              bool
	parentDone             bool
}

var _ Iterator = (*mergeIterator)(nil)

func newMergeIterator(cache []btree.Item, parent Iterator, ascending bool) *mergeIterator {
	return &mergeIterator{
		cache:     cache,
		parent:    parent,
		ascending: ascending,
	}
}

func (m *mergeIterator) Next() (key, value []byte, err error) {
	for {
		if !m.hasParent && !m.parentDone {
			k, v, err := m.parent.Next()
			switch {
			case errors.ErrIteratorDone.Is(err):
				m.parentDone = true
			case err != nil:
				return nil, nil, err
			default:
				m.parentKey, m.parentValue, m.hasParent = k, v, true
			}
		}

		if len(m.cache) == 0 {
			if !m.hasParent {
				return nil, nil, errors.ErrIteratorDone
			}
			return m.takeParent()
		}
		if m.hasParent {
			cmp := bytes.Compare(m.cache[0].(keyer).Key(), m.parentKey)
			if !m.ascending {
				cmp = -cmp
			}
			if cmp > 0 {
				return m.takeParent()
			}
			if cmp == 0 {
				// cache overwrites the parent
				m.hasParent = false
			}
		}

		item := m.cache[0]
		m.cache = m.cache[1:]
		if set, ok := item.(setItem); ok {
			return set.key, set.value, nil
		}
		// deleted item, move on
	}
}

func (m *mergeIterator) takeParent() ([]byte, []byte, error) {
	m.hasParent = false
	return m.parentKey, m.parentValue, nil
}

func (m *mergeIterator) Release() {
	m.cache = nil
	m.parent.Release()
}
