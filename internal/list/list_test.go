package list

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	n    int
	elem Elem[*item]
}

func newItem(n int) *item {
	it := &item{n: n}
	it.elem.Value = it
	return it
}

func TestZeroValueIsEmpty(t *testing.T) {
	var l List[*item]
	assert.True(t, l.Empty())
	assert.Equal(t, 0, l.Len())
	assert.Nil(t, l.Front())
	assert.Nil(t, l.Back())
	assert.Nil(t, l.PopFront())
	assert.Nil(t, l.PopBack())
}

func TestPushPopOrdering(t *testing.T) {
	var l List[*item]

	// PushBack yields FIFO order from the front.
	for i := 0; i < 5; i++ {
		l.PushBack(&newItem(i).elem)
	}
	require.Equal(t, 5, l.Len())
	for i := 0; i < 5; i++ {
		e := l.PopFront()
		require.NotNil(t, e)
		assert.Equal(t, i, e.Value.n)
	}
	assert.True(t, l.Empty())

	// PushFront yields LIFO order from the front.
	for i := 0; i < 5; i++ {
		l.PushFront(&newItem(i).elem)
	}
	for i := 4; i >= 0; i-- {
		e := l.PopFront()
		require.NotNil(t, e)
		assert.Equal(t, i, e.Value.n)
	}
}

func TestPopBack(t *testing.T) {
	var l List[*item]
	for i := 0; i < 3; i++ {
		l.PushFront(&newItem(i).elem)
	}
	// Front is 2,1,0 so the back is the oldest push.
	e := l.PopBack()
	require.NotNil(t, e)
	assert.Equal(t, 0, e.Value.n)
	assert.Equal(t, 2, l.Len())
}

func TestUnlinkKnownElement(t *testing.T) {
	var l List[*item]
	items := make([]*item, 4)
	for i := range items {
		items[i] = newItem(i)
		l.PushBack(&items[i].elem)
	}

	// Unlink from the middle, then verify the remaining order.
	items[2].elem.Unlink()
	assert.False(t, items[2].elem.OnList())
	assert.Equal(t, 3, l.Len())

	var got []int
	for e := l.PopFront(); e != nil; e = l.PopFront() {
		got = append(got, e.Value.n)
	}
	assert.Equal(t, []int{0, 1, 3}, got)
}

func TestReinsertAfterUnlink(t *testing.T) {
	var l List[*item]
	it := newItem(7)
	l.PushBack(&it.elem)
	it.elem.Unlink()
	l.PushFront(&it.elem)
	require.Equal(t, 1, l.Len())
	assert.Equal(t, 7, l.PopFront().Value.n)
}

func TestMisusePanics(t *testing.T) {
	var l List[*item]
	it := newItem(1)

	assert.Panics(t, func() { it.elem.Unlink() }, "unlink of detached element must panic")

	l.PushBack(&it.elem)
	assert.Panics(t, func() { l.PushBack(&it.elem) }, "double insert must panic")

	var other List[*item]
	assert.Panics(t, func() { other.remove(&it.elem) }, "remove from wrong list must panic")
}
