package mapfile

import (
	"github.com/sirupsen/logrus"
	"go.uber.org/atomic"

	"github.com/hitzhangjie/mapview/pkg/memmap"
)

// Observer receives progress and diagnostics while a report is parsed. The
// parser never logs on its own; callers pick an Observer instead.
type Observer interface {
	SectionFound(s *Section)
	RegionParsed(section string, r *memmap.Region)
	// Unclassified is called for a region body line that is kept as an opaque
	// attribute because its shape is unknown, and for a blank table or map
	// line that is skipped.
	Unclassified(section string, line int, text string)
	Unplaced(err *memmap.PlacementError)
}

// NopObserver ignores everything.
type NopObserver struct{}

func (NopObserver) SectionFound(*Section)               {}
func (NopObserver) RegionParsed(string, *memmap.Region) {}
func (NopObserver) Unclassified(string, int, string)    {}
func (NopObserver) Unplaced(*memmap.PlacementError)     {}

// LogObserver writes events to a logrus logger: progress at debug level,
// diagnostics at warn level.
type LogObserver struct {
	Log logrus.FieldLogger
}

func (o LogObserver) SectionFound(s *Section) {
	o.Log.WithField("section", s.Label).Debugf("found %d lines", len(s.Lines))
}

func (o LogObserver) RegionParsed(section string, r *memmap.Region) {
	o.Log.WithFields(logrus.Fields{
		"section": section,
		"region":  r.FullName(),
	}).Debugf("addr=%s size=%s %d symbols", r.Address, r.Size, len(r.Symbols))
}

func (o LogObserver) Unclassified(section string, line int, text string) {
	o.Log.WithFields(logrus.Fields{
		"section": section,
		"line":    line,
	}).Debugf("kept as attribute: %q", text)
}

func (o LogObserver) Unplaced(err *memmap.PlacementError) {
	o.Log.WithField("region", err.Region.FullName()).Warn(err.Error())
}

// CountingObserver counts events and forwards them to Next. It is safe to
// share between parses running in parallel.
type CountingObserver struct {
	Next Observer

	SectionCount      *atomic.Uint64
	RegionCount       *atomic.Uint64
	SymbolCount       *atomic.Uint64
	UnclassifiedCount *atomic.Uint64
	UnplacedCount     *atomic.Uint64
}

// NewCountingObserver creates zeroed counters in front of next. A nil next
// forwards nowhere.
func NewCountingObserver(next Observer) *CountingObserver {
	if next == nil {
		next = NopObserver{}
	}
	return &CountingObserver{
		Next:              next,
		SectionCount:      atomic.NewUint64(0),
		RegionCount:       atomic.NewUint64(0),
		SymbolCount:       atomic.NewUint64(0),
		UnclassifiedCount: atomic.NewUint64(0),
		UnplacedCount:     atomic.NewUint64(0),
	}
}

// Forward returns an observer that shares o's counters but forwards to next,
// e.g. a logger tagged with the file being parsed.
func (o *CountingObserver) Forward(next Observer) *CountingObserver {
	if next == nil {
		next = NopObserver{}
	}
	c := *o
	c.Next = next
	return &c
}

func (o *CountingObserver) SectionFound(s *Section) {
	o.SectionCount.Inc()
	o.Next.SectionFound(s)
}

func (o *CountingObserver) RegionParsed(section string, r *memmap.Region) {
	o.RegionCount.Inc()
	o.SymbolCount.Add(uint64(len(r.Symbols)))
	o.Next.RegionParsed(section, r)
}

func (o *CountingObserver) Unclassified(section string, line int, text string) {
	o.UnclassifiedCount.Inc()
	o.Next.Unclassified(section, line, text)
}

func (o *CountingObserver) Unplaced(err *memmap.PlacementError) {
	o.UnplacedCount.Inc()
	o.Next.Unplaced(err)
}
