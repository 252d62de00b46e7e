package atlas

// nilBlock marks the absence of a block index.
const nilBlock = -1

// block is a free rectangle of an atlas page. Blocks live in an arena and
// are linked by index.
type block struct {
	x, y          int
	width, height int
	prev, next    int

	// remainder marks the trailing block holding the unused space to the
	// right of the last column. It is never reordered.
	remainder bool
	live      bool
}

// blockList is an index-addressed doubly-linked free-space list.
//
// Invariant: blocks are ordered by increasing width, except the single
// remainder block which is always last.
type blockList struct {
	nodes []block
	free  []int
	head  int
	count int
}

func newBlockList() blockList {
	return blockList{head: nilBlock}
}

// reset drops every block and recycles the arena storage.
func (l *blockList) reset() {
	l.nodes = l.nodes[:0]
	l.free = l.free[:0]
	l.head = nilBlock
	l.count = 0
}

// alloc stores b in the arena and returns its index. The block is not linked.
func (l *blockList) alloc(b block) int {
	b.prev, b.next = nilBlock, nilBlock
	b.live = true
	if n := len(l.free); n > 0 {
		idx := l.free[n-1]
		l.free = l.free[:n-1]
		l.nodes[idx] = b
		return idx
	}
	l.nodes = append(l.nodes, b)
	return len(l.nodes) - 1
}

// insert links the block at idx keeping the width ordering. A new block
// wider than every column block goes right before the remainder.
func (l *blockList) insert(idx int) {
	nb := &l.nodes[idx]
	prev := nilBlock
	curr := l.head
	for curr != nilBlock && !l.nodes[curr].remainder {
		if nb.width < l.nodes[curr].width {
			break
		}
		prev = curr
		curr = l.nodes[curr].next
	}

	nb.prev = prev
	nb.next = curr
	if curr != nilBlock {
		l.nodes[curr].prev = idx
	}
	if prev != nilBlock {
		l.nodes[prev].next = idx
	} else {
		l.head = idx
	}
	l.count++
}

// unlink removes the block at idx from the list and recycles its slot.
func (l *blockList) unlink(idx int) {
	b := &l.nodes[idx]
	if b.prev != nilBlock {
		l.nodes[b.prev].next = b.next
	} else {
		l.head = b.next
	}
	if b.next != nilBlock {
		l.nodes[b.next].prev = b.prev
	}
	b.prev, b.next = nilBlock, nilBlock
	b.live = false
	l.free = append(l.free, idx)
	l.count--
}

// each calls fn for every linked block in list order until fn returns false.
func (l *blockList) each(fn func(idx int, b *block) bool) {
	for i := l.head; i != nilBlock; {
		next := l.nodes[i].next
		if !fn(i, &l.nodes[i]) {
			return
		}
		i = next
	}
}
