package ingest

import (
	"github.com/xuri/excelize/v2"

	"planner/internal/domain"
	"planner/internal/geogrid"
	"planner/pkg/apperror"
)

// sheetNames and column headers mirror the "sources"/"sinks" workbook
// layout input_data.py's InputData reads via pandas.read_excel (spec.md
// §6).
const (
	sourceSheet = "sources"
	sinkSheet   = "sinks"
)

var assetColumns = struct {
	id, name, totalCost, fixedCost, varCost, lat, lon string
}{
	id: "ID", name: "UNIQUE NAME",
	totalCost: "Total Unit Cost ($/tCO2)", fixedCost: "Fixed Cost ($M)", varCost: "Operating Cost ($/tCO2)",
	lat: "Lat", lon: "Lon",
}

const (
	sourceCapColumn = "Capture Capacity (MTCO2/yr)"
	sinkCapColumn   = "Storage Capacity (MTCO2)"
)

// ReadAssetWorkbook parses the "sources" and "sinks" sheets of an asset
// workbook into domain.Assets, resolving each asset's grid cell from its
// lat/lon via grid (spec.md §6 "Asset ingestion"). Rows with a blank ID are
// skipped, mirroring pandas's fillna(0)-then-ignore behavior for trailing
// blank rows openpyxl sometimes reports.
func ReadAssetWorkbook(path string, grid *geogrid.Grid) ([]domain.Asset, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInvalidFormat, "failed opening asset workbook")
	}
	defer f.Close()

	sources, err := readAssetSheet(f, sourceSheet, domain.AssetKindSource, "source", sourceCapColumn, grid)
	if err != nil {
		return nil, err
	}
	sinks, err := readAssetSheet(f, sinkSheet, domain.AssetKindSink, "sink", sinkCapColumn, grid)
	if err != nil {
		return nil, err
	}

	return append(sources, sinks...), nil
}

func readAssetSheet(
	f *excelize.File, sheet string, kind domain.AssetKind, idPrefix, capColumn string, grid *geogrid.Grid,
) ([]domain.Asset, error) {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInvalidFormat, "failed reading sheet "+sheet)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	col, err := indexColumns(rows[0], assetColumns.id, capColumn, assetColumns.totalCost,
		assetColumns.fixedCost, assetColumns.varCost, assetColumns.lat, assetColumns.lon)
	if err != nil {
		return nil, err
	}

	var assets []domain.Asset
	for _, row := range rows[1:] {
		id := cellString(row, col[assetColumns.id])
		if id == "" {
			continue
		}

		lat := cellFloat(row, col[assetColumns.lat])
		lon := cellFloat(row, col[assetColumns.lon])
		cell, err := grid.LatLonToCell(lat, lon)
		if err != nil {
			return nil, apperror.Wrap(err, apperror.CodeOutOfExtent, "asset coordinate outside loaded raster").
				WithDetails("id", id)
		}

		assets = append(assets, domain.Asset{
			ID:            idPrefix + "_" + id,
			Kind:          kind,
			Lat:           lat,
			Lon:           lon,
			Cell:          cell,
			Capacity:      cellFloat(row, col[capColumn]),
			FixedCost:     cellFloat(row, col[assetColumns.fixedCost]),
			VariableCost:  cellFloat(row, col[assetColumns.varCost]),
			TotalUnitCost: cellFloat(row, col[assetColumns.totalCost]),
		})
	}

	return assets, nil
}
