// Command genmock writes the summarize request fixture used by the pipeline
// and HTTP test suites. Values come from closed-form series so the fixture is
// reproducible without a random seed. After writing, the fixture is parsed
// back and summarized with the real engine so the printed figures can be used
// to update test assertions.
//
// Usage:
//
//	go run ./cmd/genmock -out data/mock/summarize_request.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/couchcryptid/geo-digest-service/internal/domain"
	"github.com/couchcryptid/geo-digest-service/internal/summarize"
)

var (
	zipCities  = []string{"East Lansing", "Lansing", "Okemos", "Haslett", "Williamston"}
	txCounties = []string{
		"Travis", "Harris", "Dallas", "Tarrant", "Bexar", "Collin", "Denton", "Williamson",
		"Fort Bend", "El Paso", "Hidalgo", "Montgomery", "Brazoria", "Galveston", "Lubbock",
		"Webb", "McLennan", "Jefferson", "Nueces", "Smith", "Brazos", "Hays", "Bell", "Ector", "Midland",
	}
	caCities = []string{"Fresno", "Modesto", "Visalia"}
)

const spikeValue = 400

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "", "output path for the summarize request fixture")
	flag.Parse()

	if *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}

	req := buildRequest()
	if err := writeJSON(*out, req); err != nil {
		return fmt.Errorf("writing fixture: %w", err)
	}
	log.Printf("wrote fixture: %s", *out)

	return printStats(*out)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func zipValue(i int) float64 {
	if i == 29 {
		return spikeValue
	}
	return round2(40 + 25*math.Sin(float64(i)*0.7) + 3*float64(i%4))
}

func countyValue(i int) float64 {
	return round2(60 + 20*math.Cos(float64(i)*0.5))
}

func siteScore(i int) any {
	if i%5 == 4 {
		return nil
	}
	return round2(70 + 4*float64(i%3) - float64(i)/2)
}

// buildRequest mixes the three feature shapes the engine accepts: GeoJSON,
// ArcGIS attributes, and flat records.
func buildRequest() map[string]any {
	zips := make([]map[string]any, 0, 30)
	for i := range 30 {
		zips = append(zips, map[string]any{
			"type": "Feature",
			"properties": map[string]any{
				"ZIP":            fmt.Sprintf("%05d", 48800+i),
				"DESCRIPTION":    zipCities[i%len(zipCities)] + ", MI",
				"thematic_value": zipValue(i),
			},
			"geometry": map[string]any{
				"type":        "Point",
				"coordinates": []float64{round2(-84.6 + float64(i)*0.01), round2(42.7 + float64(i%5)*0.02)},
			},
		})
	}

	counties := make([]map[string]any, 0, len(txCounties))
	for i, name := range txCounties {
		counties = append(counties, map[string]any{
			"attributes": map[string]any{
				"COUNTY_NAME":       name,
				"STATE_ABBR":        "TX",
				"performance_score": countyValue(i),
			},
		})
	}

	sites := make([]map[string]any, 0, 15)
	for i := range 15 {
		sites = append(sites, map[string]any{
			"name":  fmt.Sprintf("Site %d", i+1),
			"city":  caCities[i%len(caCities)],
			"state": "CA",
			"score": siteScore(i),
		})
	}

	return map[string]any{
		"id": "mock-request-1",
		"layers": []map[string]any{
			{"id": "mi-zips", "name": "Michigan ZIP Codes", "features": zips},
			{"id": "tx-counties", "features": counties},
			{"id": "ca-sites", "name": "Candidate Sites", "features": sites},
			{"id": "pending", "name": "Pending Layer", "features": []any{}},
		},
		"layer_configs": map[string]any{
			"tx-counties": map[string]any{"name": "Texas Counties", "renderer_field": "performance_score"},
		},
		"options": map[string]any{
			"analysis_type":      string(domain.AnalysisStrategic),
			"include_clustering": true,
			"include_outliers":   true,
			"include_statistics": true,
			"top_performers":     10,
			"bottom_performers":  5,
		},
	}
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o600)
}

func printStats(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	req, err := domain.ParseSummarizeRequest(domain.RawMessage{Value: data})
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	res := summarize.New(nil, logger, nil).Summarize(req.Layers, req.LayerConfigs, req.EffectiveOptions())

	fmt.Println("\n=== Stats for updating test assertions ===")
	fmt.Printf("Layers: %d\n", res.LayerCount)
	fmt.Printf("Features: %d\n", res.FeatureCount)
	fmt.Printf("Digest bytes: %d\n", res.ByteSize)
	fmt.Printf("Estimated reduction: %.1f%%\n", res.EstimatedReductionPct)
	fmt.Printf("Directives: %d\n", strings.Count(res.Digest, "ANALYSIS DIRECTIVE:"))
	for _, l := range req.Layers {
		cfg := req.LayerConfigs[l.ID]
		fmt.Printf("  %-20s %3d features, field %s\n",
			summarize.LayerName(l, cfg), len(l.Features),
			summarize.ResolveField(l.Features, cfg, req.EffectiveOptions().AnalysisType))
	}
	return nil
}
