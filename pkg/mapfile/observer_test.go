package mapfile

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hitzhangjie/mapview/pkg/memmap"
)

type recordingObserver struct {
	NopObserver
	regions []string
}

func (o *recordingObserver) RegionParsed(_ string, r *memmap.Region) {
	o.regions = append(o.regions, r.FullName())
}

func TestCountingObserverForward(t *testing.T) {
	counters := NewCountingObserver(nil)
	rec := &recordingObserver{}
	fwd := counters.Forward(rec)

	r := memmap.NewRegion(".text", "")
	r.Symbols = append(r.Symbols, memmap.NewSymbol("main", memmap.Value{}, memmap.Value{}))
	fwd.RegionParsed(LinkerMemoryMap, r)
	counters.RegionParsed(LinkerMemoryMap, r)

	assert.Equal(t, uint64(2), counters.RegionCount.Load())
	assert.Equal(t, uint64(2), fwd.SymbolCount.Load())
	assert.Equal(t, []string{".text"}, rec.regions)
}

func TestCountingObserverConcurrent(t *testing.T) {
	counters := NewCountingObserver(nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			obs := counters.Forward(nil)
			for j := 0; j < 100; j++ {
				obs.Unclassified(LinkerMemoryMap, j, "x")
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, uint64(800), counters.UnclassifiedCount.Load())
}
