package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/bits/internal/packet"
)

// AssertGolden compares the rendered tree of p against a golden file.
// The golden file is stored in testdata/golden/{name}.golden
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func AssertGolden(t *testing.T, name string, p packet.Packet) {
	t.Helper()

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, []byte(packet.Render(p)))
}

// AssertCanonicalGolden compares the canonical JSON of p against a golden file
// stored in testdata/golden/{name}.json.golden
func AssertCanonicalGolden(t *testing.T, name string, p packet.Packet) error {
	t.Helper()

	data, err := packet.MarshalCanonical(p)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".json.golden"),
	)
	g.Assert(t, name, data)
	return nil
}
