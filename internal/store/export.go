package store

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/sim"
)

type ExportData struct {
	Name       string             `json:"name"`
	Integrator string             `json:"integrator"`
	Seed       int64              `json:"seed"`
	Dt         float64            `json:"dt"`
	Ticks      int                `json:"ticks"`
	Params     dynamo.Params      `json:"params"`
	Stats      []dynamo.TickStats `json:"stats"`
	Metrics    map[string]float64 `json:"metrics"`
}

func NewExportData(name, integrator string, params dynamo.Params, result *sim.Result) ExportData {
	return ExportData{
		Name:       name,
		Integrator: integrator,
		Seed:       params.Seed,
		Dt:         params.Dt(),
		Ticks:      result.TicksTaken,
		Params:     params,
		Stats:      result.Stats,
		Metrics:    result.Metrics,
	}
}

func EncodeJSON(w io.Writer, data ExportData) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func ExportJSON(path string, data ExportData) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return EncodeJSON(file, data)
}

func ExportJSONStdout(data ExportData) error {
	return EncodeJSON(os.Stdout, data)
}
