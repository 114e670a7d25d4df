package snapshot

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zooyer/zcad"
)

const sampleDoc = `0
SECTION
2
ENTITIES
0
LINE
5
30
10
0
20
0
11
10
21
10
0
CIRCLE
5
31
10
5
20
5
40
2.5
0
ENDSEC
0
EOF
`

func load(t *testing.T, src string) *zcad.Document {
	t.Helper()
	doc, err := zcad.Load(strings.NewReader(src))
	require.NoError(t, err)
	return doc
}

func TestEncodeDeterministic(t *testing.T) {
	doc := load(t, sampleDoc)
	a, err := Encode(doc)
	require.NoError(t, err)
	b, err := Encode(doc)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}

func TestCaptureShape(t *testing.T) {
	snap := Capture(load(t, sampleDoc))
	require.Len(t, snap.Entities, 2)
	assert.Equal(t, "LINE", snap.Entities[0].Kind)
	assert.Equal(t, "CIRCLE", snap.Entities[1].Kind)
	require.Len(t, snap.Layers, 1)
	assert.Equal(t, "0", snap.Layers[0].Name)
}

func TestDiffIdentical(t *testing.T) {
	a, err := Encode(load(t, sampleDoc))
	require.NoError(t, err)
	assert.Empty(t, Diff(a, a))
}

func TestDiffReportsEveryPath(t *testing.T) {
	doc1 := load(t, sampleDoc)
	doc2 := load(t, strings.Replace(sampleDoc, "40\n2.5\n", "40\n3.5\n", 1))
	a, err := Encode(doc1)
	require.NoError(t, err)
	b, err := Encode(doc2)
	require.NoError(t, err)

	diffs := Diff(a, b)
	require.Len(t, diffs, 1)
	assert.Contains(t, diffs[0], "Radius")
	assert.Contains(t, diffs[0], "2.5 != 3.5")
}

func TestDiffLengthAndKeyMismatch(t *testing.T) {
	diffs := Diff(
		[]byte(`{"a": [1, 2], "b": 1}`),
		[]byte(`{"a": [1], "c": 1}`),
	)
	joined := strings.Join(diffs, "\n")
	assert.Contains(t, joined, "$.a")
	assert.Contains(t, joined, "$.b")
	assert.Contains(t, joined, "$.c")
}

func TestGoldenAssert(t *testing.T) {
	doc := load(t, sampleDoc)
	golden := t.TempDir() + "/sample.golden.json"

	// 第一次写入金样，第二次必须命中
	Assert(t, golden, doc)
	Assert(t, golden, doc)
}
