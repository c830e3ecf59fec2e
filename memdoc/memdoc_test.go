package memdoc

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/pdftree/core"
)

func TestDocumentLookup(t *testing.T) {
	doc := New()
	ref := doc.Add(5, core.Dict{"Type": core.Name("Page")})
	doc.Set(9, 2, core.Int(42))

	assert.Equal(t, core.Reference{Number: 5}, ref)
	assert.Equal(t, 2, doc.Len())
	assert.Equal(t, []uint32{5, 9}, doc.Numbers())

	obj, err := doc.GetObject(9)
	require.NoError(t, err)
	assert.Equal(t, core.Int(42), obj)

	gen, ok := doc.Generation(9)
	assert.True(t, ok)
	assert.Equal(t, uint16(2), gen)

	_, err = doc.GetObject(1)
	assert.True(t, core.ErrObjectNotFound.Is(err))

	doc.Remove(9)
	_, ok = doc.Generation(9)
	assert.False(t, ok)
}

func TestDocumentConcurrentReads(t *testing.T) {
	doc := New()
	for i := uint32(1); i <= 100; i++ {
		doc.Add(i, core.Int(i))
	}

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := uint32(1); i <= 100; i++ {
				obj, err := doc.GetObject(i)
				if assert.NoError(t, err) {
					assert.Equal(t, core.Int(i), obj)
				}
			}
		}()
	}
	wg.Wait()
}
