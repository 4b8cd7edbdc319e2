package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planner/internal/domain"
)

const sampleCostFile = `note,ignored
note,ignored
ncols,3
nrows,3
xllcorner,-100
yllcorner,30
cellsize,0.1
nodata_value,-9999
1,2,4
5,6
2,1,3,5
4,2,6
`

func TestReadCostFileParsesHeader(t *testing.T) {
	cf, err := ReadCostFile(strings.NewReader(sampleCostFile))
	require.NoError(t, err)

	assert.Equal(t, 3, cf.Header.NCols)
	assert.Equal(t, 3, cf.Header.NRows)
	assert.Equal(t, -100.0, cf.Header.XLLCorner)
	assert.Equal(t, 30.0, cf.Header.YLLCorner)
	assert.Equal(t, 0.1, cf.Header.CellSize)
	assert.Equal(t, "-9999", cf.Header.NoData)
}

func TestReadCostFileParsesEdgeBlocks(t *testing.T) {
	cf, err := ReadCostFile(strings.NewReader(sampleCostFile))
	require.NoError(t, err)

	assert.Contains(t, cf.Edges, RawEdge{From: 1, To: 2, Weight: 5})
	assert.Contains(t, cf.Edges, RawEdge{From: 1, To: 4, Weight: 6})
	assert.Contains(t, cf.Edges, RawEdge{From: 2, To: 1, Weight: 4})
	assert.Contains(t, cf.Edges, RawEdge{From: 2, To: 3, Weight: 2})
	assert.Contains(t, cf.Edges, RawEdge{From: 2, To: 5, Weight: 6})
	assert.Len(t, cf.Edges, 5)
}

func TestReadCostFileRejectsTruncatedHeader(t *testing.T) {
	_, err := ReadCostFile(strings.NewReader("a,b\nc,d\n"))
	require.Error(t, err)
}

func TestRawEdgeCellType(t *testing.T) {
	e := RawEdge{From: domain.Cell(1), To: domain.Cell(2), Weight: 1}
	assert.Equal(t, domain.Cell(1), e.From)
}
