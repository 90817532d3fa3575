// Command tablegen builds a location distance table from the listing dataset:
// each sector is placed at the mean coordinate of its listings and the table
// holds the great-circle distance in meters between every pair of sectors.
package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/insightsphere/internal/analytics"
	"github.com/ukydev/insightsphere/internal/config"
	"github.com/ukydev/insightsphere/internal/dataset"
	"github.com/ukydev/insightsphere/internal/models"
	"github.com/xuri/excelize/v2"
)

const earthRadiusMeters = 6371000.0

// Sector is a named point on the map.
type Sector struct {
	Name     string
	Location models.Location
}

func haversineMeters(a, b models.Location) float64 {
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	s := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(s), math.Sqrt(1-s))
	return earthRadiusMeters * c
}

// sectorLocations places every sector with known coordinates at its mean
// listing coordinate, sorted by name. Listings without coordinates are skipped.
func sectorLocations(props []models.Property) []Sector {
	located := make([]models.Property, 0, len(props))
	for _, p := range props {
		if p.HasCoordinates() {
			located = append(located, p)
		}
	}
	summaries := analytics.SectorGeomap(located)
	sectors := make([]Sector, 0, len(summaries))
	for _, s := range summaries {
		if s.Latitude == nil || s.Longitude == nil || s.Sector == "" {
			continue
		}
		sectors = append(sectors, Sector{
			Name:     s.Sector,
			Location: models.Location{Lat: *s.Latitude, Lon: *s.Longitude},
		})
	}
	return sectors
}

// distanceMatrix returns m[i][j], the distance from sectors[i] to sectors[j].
func distanceMatrix(sectors []Sector) [][]float64 {
	m := make([][]float64, len(sectors))
	for i := range sectors {
		m[i] = make([]float64, len(sectors))
		for j := range sectors {
			if i != j {
				m[i][j] = math.Round(haversineMeters(sectors[i].Location, sectors[j].Location))
			}
		}
	}
	return m
}

// tableRows lays the matrix out as a header row followed by one row per
// sector, so that column c row r holds the distance from c to r.
func tableRows(sectors []Sector, m [][]float64) [][]string {
	header := make([]string, len(sectors)+1)
	for i, s := range sectors {
		header[i+1] = s.Name
	}
	rows := [][]string{header}
	for r, s := range sectors {
		row := make([]string, len(sectors)+1)
		row[0] = s.Name
		for c := range sectors {
			row[c+1] = strconv.FormatFloat(m[c][r], 'f', -1, 64)
		}
		rows = append(rows, row)
	}
	return rows
}

func writeCSV(w io.Writer, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}

func writeXLSX(path string, rows [][]string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		values := make([]interface{}, len(row))
		for j, v := range row {
			// numbers are stored as numbers so the sheet stays usable
			if n, err := strconv.ParseFloat(v, 64); err == nil && i > 0 && j > 0 {
				values[j] = n
			} else {
				values[j] = v
			}
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func writeTable(path string, rows [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return writeXLSX(path, rows)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := writeCSV(f, rows); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func generate(ctx context.Context, propertiesPath, output string) (int, error) {
	props, err := dataset.CSVProperties{Path: propertiesPath}.LoadProperties(ctx)
	if err != nil {
		return 0, err
	}
	sectors := sectorLocations(props)
	if len(sectors) == 0 {
		return 0, fmt.Errorf("no sector in %s has coordinates", propertiesPath)
	}
	if err := writeTable(output, tableRows(sectors, distanceMatrix(sectors))); err != nil {
		return 0, err
	}
	return len(sectors), nil
}

func main() {
	propertiesPath := config.GetEnv("PROPERTIES_PATH", "datasets/data_viz1.csv")
	output := config.GetEnv("TABLE_OUTPUT", "datasets/location_distance.csv")

	log.WithFields(log.Fields{
		"properties": propertiesPath,
		"output":     output,
	}).Info("Generating distance table")

	n, err := generate(context.Background(), propertiesPath, output)
	if err != nil {
		log.WithError(err).Fatal("Failed to generate distance table")
	}
	log.WithField("locations", n).Info("Distance table written")
}
