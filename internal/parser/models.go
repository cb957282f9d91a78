package parser

import (
	"errors"
	"fmt"
)

// NumFields is the number of fields on every data row of a heater test file.
const NumFields = 5

// TimeColumn names the field holding the sample time (milliseconds in raw files).
const TimeColumn = "time"

// MainChannel is the channel that drives plateau and ramp detection by default.
const MainChannel = "main"

// ColumnNames lists the fields of a data row in file order.
var ColumnNames = []string{"ch1", "ch2", MainChannel, "ch4", TimeColumn}

var (
	ErrChannelNotFound    = errors.New("channel not found")
	ErrTraceTooShort      = errors.New("trace has fewer than two samples")
	ErrIdentifierNotFound = errors.New("instrument ID not found in file name")
	ErrConditionNotFound  = errors.New("temperature condition not found in file name")
)

// Trace is one heater test run: a time column plus the temperature channels
// sampled at each time. All slices share the same length and are indexed by
// sample position.
type Trace struct {
	SourceFile    string
	InstrumentID  string
	TempCondition string
	Time          []float64
	Channels      map[string][]float64
	ChannelNames  []string // file order, time excluded
	ParseErrors   []string // non-fatal problems found while loading
}

// NewTrace creates an empty trace for the given source file.
func NewTrace(sourceFile string) *Trace {
	return &Trace{
		SourceFile:   sourceFile,
		Time:         make([]float64, 0),
		Channels:     make(map[string][]float64),
		ChannelNames: make([]string, 0),
		ParseErrors:  make([]string, 0),
	}
}

// Len returns the number of samples.
func (t *Trace) Len() int {
	return len(t.Time)
}

// Channel returns the readings of the named channel.
func (t *Trace) Channel(name string) ([]float64, error) {
	values, ok := t.Channels[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q in %s", ErrChannelNotFound, name, t.SourceFile)
	}
	return values, nil
}

// AddChannel registers a channel column. The slice is stored, not copied.
func (t *Trace) AddChannel(name string, values []float64) {
	if _, exists := t.Channels[name]; !exists {
		t.ChannelNames = append(t.ChannelNames, name)
	}
	t.Channels[name] = values
}

// WithTime returns a copy of the trace carrying a new time column. Channel
// slices are shared with the receiver and must be treated as read-only.
func (t *Trace) WithTime(time []float64) *Trace {
	out := *t
	out.Time = time
	out.ChannelNames = append([]string(nil), t.ChannelNames...)
	out.ParseErrors = append([]string(nil), t.ParseErrors...)
	out.Channels = make(map[string][]float64, len(t.Channels))
	for name, values := range t.Channels {
		out.Channels[name] = values
	}
	return &out
}

// Validate checks that the trace is long enough and its columns line up.
func (t *Trace) Validate() error {
	if t.Len() < 2 {
		return fmt.Errorf("%w: %s has %d", ErrTraceTooShort, t.SourceFile, t.Len())
	}
	for _, name := range t.ChannelNames {
		if len(t.Channels[name]) != t.Len() {
			return fmt.Errorf("channel %q in %s has %d samples, time has %d", name, t.SourceFile, len(t.Channels[name]), t.Len())
		}
	}
	return nil
}
