package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/san-kum/grfm/internal/grfm"
	"github.com/san-kum/grfm/internal/trial"
)

type ExportReaction struct {
	Force  [3]float64 `json:"force"`
	Torque [3]float64 `json:"torque"`
	Point  [3]float64 `json:"point"`
}

type ExportFrame struct {
	T     float64        `json:"t"`
	Right ExportReaction `json:"right"`
	Left  ExportReaction `json:"left"`
}

type ExportData struct {
	RunMetadata
	Outputs []ExportFrame `json:"outputs"`
}

func exportReaction(r grfm.Reaction) ExportReaction {
	return ExportReaction{
		Force:  [3]float64{r.Force.X, r.Force.Y, r.Force.Z},
		Torque: [3]float64{r.Torque.X, r.Torque.Y, r.Torque.Z},
		Point:  [3]float64{r.Point.X, r.Point.Y, r.Point.Z},
	}
}

func NewExportData(meta RunMetadata, outputs []grfm.Output) ExportData {
	data := ExportData{RunMetadata: meta, Outputs: make([]ExportFrame, len(outputs))}
	for i, o := range outputs {
		data.Outputs[i] = ExportFrame{T: o.T, Right: exportReaction(o.Right), Left: exportReaction(o.Left)}
	}
	return data
}

// ExportJSON writes a stored run as one indented JSON document.
func (s *Store) ExportJSON(w io.Writer, id string) error {
	meta, err := s.Load(id)
	if err != nil {
		return err
	}
	outputs, err := s.LoadOutputs(id)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return errors.Wrap(encoder.Encode(NewExportData(*meta, outputs)), "could not encode run")
}

func (s *Store) ExportJSONFile(path, id string) error {
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "could not create export file")
	}
	defer file.Close()
	return s.ExportJSON(file, id)
}

// ExportCSV copies the stored outputs table to w.
func (s *Store) ExportCSV(w io.Writer, id string) error {
	outputs, err := s.LoadOutputs(id)
	if err != nil {
		return err
	}
	return errors.Wrap(trial.WriteOutputs(w, outputs), "could not write outputs")
}
