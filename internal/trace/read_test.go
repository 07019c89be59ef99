package trace

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
)

func TestFormatRecords_Golden(t *testing.T) {
	records := []Record{
		{Seq: 1, Kind: "wake", TagNS: 10_000_000, Status: "completed", ActualNS: 10_000_000},
		{Seq: 2, Kind: "event", EventName: "blink", TagNS: 10_000_000, Microstep: 0},
		{Seq: 3, Kind: "wake", TagNS: 30_000_000, Status: "interrupted", ActualNS: 30_000_500},
		{Seq: 4, Kind: "event", EventName: "blink", TagNS: 30_000_000, Microstep: 1},
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "format_basic", []byte(FormatRecords(records)))
}

func TestFormatRecords_Empty(t *testing.T) {
	assert.Equal(t, "", FormatRecords(nil))
}
