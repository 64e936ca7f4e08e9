package cache

// lruNode is a node in a doubly-linked LRU list. It stores the key so the
// oldest entry can be deleted from the parent map in O(1).
type lruNode[K comparable, V any] struct {
	key   K
	value V
	prev  *lruNode[K, V]
	next  *lruNode[K, V]
}

// lruList is a doubly-linked list ordered by recency. The head is the most
// recently used node, the tail the least recently used.
//
// The list is not thread-safe; callers must handle synchronization.
type lruList[K comparable, V any] struct {
	head *lruNode[K, V]
	tail *lruNode[K, V]
	len  int
}

// pushFront inserts a new node at the front and returns it.
func (l *lruList[K, V]) pushFront(key K, value V) *lruNode[K, V] {
	node := &lruNode[K, V]{key: key, value: value}
	l.linkFront(node)
	return node
}

// moveToFront marks an existing node as most recently used.
func (l *lruList[K, V]) moveToFront(node *lruNode[K, V]) {
	if node == l.head {
		return
	}
	l.unlink(node)
	l.linkFront(node)
}

// removeOldest unlinks and returns the least recently used node, or nil
// when the list is empty.
func (l *lruList[K, V]) removeOldest() *lruNode[K, V] {
	node := l.tail
	if node != nil {
		l.unlink(node)
	}
	return node
}

func (l *lruList[K, V]) linkFront(node *lruNode[K, V]) {
	node.prev = nil
	node.next = l.head
	if l.head != nil {
		l.head.prev = node
	}
	l.head = node
	if l.tail == nil {
		l.tail = node
	}
	l.len++
}

// unlink removes a node from the list and clears its pointers.
func (l *lruList[K, V]) unlink(node *lruNode[K, V]) {
	if node.prev != nil {
		node.prev.next = node.next
	} else {
		l.head = node.next
	}
	if node.next != nil {
		node.next.prev = node.prev
	} else {
		l.tail = node.prev
	}
	node.prev = nil
	node.next = nil
	l.len--
}
