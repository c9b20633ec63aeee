package datastructure

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMinHeapExtractOrder(t *testing.T) {
	pq := NewBinaryHeap[int]()

	ranks := []float64{5, 1, 4, 2, 3}
	for i, r := range ranks {
		pq.Insert(NewPriorityQueueNode(r, i))
	}
	require.Equal(t, len(ranks), pq.Size())

	prev := -1.0
	for !pq.IsEmpty() {
		item, err := pq.ExtractMin()
		require.NoError(t, err)
		assert.GreaterOrEqual(t, item.GetRank(), prev)
		prev = item.GetRank()
	}

	_, err := pq.ExtractMin()
	assert.Error(t, err)
}

func TestMinHeapEqualRanksServedInInsertionOrder(t *testing.T) {
	pq := NewFourAryHeap[string]()

	pq.Insert(NewPriorityQueueNode(1.0, "first"))
	pq.Insert(NewPriorityQueueNode(1.0, "second"))
	pq.Insert(NewPriorityQueueNode(1.0, "third"))

	for _, want := range []string{"first", "second", "third"} {
		item, err := pq.ExtractMin()
		require.NoError(t, err)
		assert.Equal(t, want, item.GetItem())
	}
}

func TestMinHeapDecreaseKey(t *testing.T) {
	pq := NewBinaryHeap[string]()

	pq.Insert(NewPriorityQueueNode(10.0, "a"))
	target := NewPriorityQueueNode(20.0, "b")
	pq.Insert(target)
	pq.Insert(NewPriorityQueueNode(30.0, "c"))

	require.NoError(t, pq.DecreaseKey(target, 5.0))

	item, err := pq.ExtractMin()
	require.NoError(t, err)
	assert.Equal(t, "b", item.GetItem())
	assert.Equal(t, 5.0, item.GetRank())

	// increasing a key is rejected
	other, err := pq.GetMin()
	require.NoError(t, err)
	assert.Error(t, pq.DecreaseKey(other, 100.0))
}

func TestMinHeapGetMinrankOnEmpty(t *testing.T) {
	pq := NewBinaryHeap[int]()
	assert.Greater(t, pq.GetMinrank(), 1e15)
}
