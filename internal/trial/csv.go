package trial

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/san-kum/grfm/internal/grfm"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	colTime     = "time"
	colRight    = "contact_r"
	colLeft     = "contact_l"
	prefixQ     = "q_"
	prefixQDot  = "qd_"
	prefixQDDot = "qdd_"
)

// OutputHeader is the column layout of estimator output files.
var OutputHeader = []string{
	"time",
	"r_fx", "r_fy", "r_fz", "r_mx", "r_my", "r_mz", "r_px", "r_py", "r_pz",
	"l_fx", "l_fy", "l_fz", "l_mx", "l_my", "l_mz", "l_px", "l_py", "l_pz",
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func formatBool(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// WriteCSV writes the trial with columns time, q_*, qd_*, qdd_*, contact_r
// and contact_l.
func WriteCSV(w io.Writer, tr *Trial) error {
	cw := csv.NewWriter(w)

	header := []string{colTime}
	for _, p := range []string{prefixQ, prefixQDot, prefixQDDot} {
		for _, name := range tr.Coordinates {
			header = append(header, p+name)
		}
	}
	header = append(header, colRight, colLeft)
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, f := range tr.Frames {
		row := make([]string, 0, len(header))
		row = append(row, formatFloat(f.T))
		for _, vals := range [][]float64{f.Q, f.QDot, f.QDDot} {
			for _, v := range vals {
				row = append(row, formatFloat(v))
			}
		}
		row = append(row, formatBool(f.RightContact), formatBool(f.LeftContact))
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

type layout struct {
	time, right, left int
	q, qd, qdd        []int
}

func parseHeader(header []string) (layout, []string, error) {
	l := layout{time: -1, right: -1, left: -1}
	qd := map[string]int{}
	qdd := map[string]int{}
	var names []string

	for i, raw := range header {
		col := strings.TrimSpace(raw)
		switch {
		case col == colTime:
			l.time = i
		case col == colRight:
			l.right = i
		case col == colLeft:
			l.left = i
		case strings.HasPrefix(col, prefixQDDot):
			qdd[strings.TrimPrefix(col, prefixQDDot)] = i
		case strings.HasPrefix(col, prefixQDot):
			qd[strings.TrimPrefix(col, prefixQDot)] = i
		case strings.HasPrefix(col, prefixQ):
			names = append(names, strings.TrimPrefix(col, prefixQ))
			l.q = append(l.q, i)
		}
	}

	var missing []string
	if l.time < 0 {
		missing = append(missing, colTime)
	}
	if l.right < 0 {
		missing = append(missing, colRight)
	}
	if l.left < 0 {
		missing = append(missing, colLeft)
	}
	for _, name := range names {
		i, ok := qd[name]
		if !ok {
			missing = append(missing, prefixQDot+name)
		}
		l.qd = append(l.qd, i)
		j, ok := qdd[name]
		if !ok {
			missing = append(missing, prefixQDDot+name)
		}
		l.qdd = append(l.qdd, j)
	}
	if len(missing) > 0 {
		return l, nil, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}
	return l, names, nil
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "t", "yes":
		return true, nil
	case "0", "false", "f", "no", "":
		return false, nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return false, err
	}
	return v > 0.5, nil
}

// ReadCSV parses a trial written by WriteCSV or any file with the same
// column names in any order.
func ReadCSV(r io.Reader) (*Trial, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, ErrEmptyTrial
	}
	if err != nil {
		return nil, err
	}
	l, names, err := parseHeader(header)
	if err != nil {
		return nil, err
	}

	tr := &Trial{Coordinates: names}
	row := 1
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		row++
		if err != nil {
			return nil, err
		}

		num := func(i int) (float64, error) {
			v, err := strconv.ParseFloat(strings.TrimSpace(rec[i]), 64)
			if err != nil {
				return 0, fmt.Errorf("row %d column %s: %w", row, header[i], err)
			}
			return v, nil
		}
		vec := func(cols []int) ([]float64, error) {
			out := make([]float64, len(cols))
			for k, c := range cols {
				v, err := num(c)
				if err != nil {
					return nil, err
				}
				out[k] = v
			}
			return out, nil
		}

		var f Frame
		if f.T, err = num(l.time); err != nil {
			return nil, err
		}
		if f.Q, err = vec(l.q); err != nil {
			return nil, err
		}
		if f.QDot, err = vec(l.qd); err != nil {
			return nil, err
		}
		if f.QDDot, err = vec(l.qdd); err != nil {
			return nil, err
		}
		if f.RightContact, err = parseBool(rec[l.right]); err != nil {
			return nil, fmt.Errorf("row %d column %s: %w", row, colRight, err)
		}
		if f.LeftContact, err = parseBool(rec[l.left]); err != nil {
			return nil, fmt.Errorf("row %d column %s: %w", row, colLeft, err)
		}
		tr.Frames = append(tr.Frames, f)
	}

	if err := tr.Validate(); err != nil {
		return nil, err
	}
	return tr, nil
}

// LoadFile reads a trial CSV and names the trial after the file.
func LoadFile(path string) (*Trial, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open trial")
	}
	defer file.Close()

	tr, err := ReadCSV(file)
	if err != nil {
		return nil, errors.Wrapf(err, "read trial %s", path)
	}
	tr.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return tr, nil
}

func SaveFile(path string, tr *Trial) error {
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create trial file")
	}
	defer file.Close()

	if err := WriteCSV(file, tr); err != nil {
		return errors.Wrapf(err, "write trial %s", path)
	}
	return nil
}

func reactionRow(r grfm.Reaction) []string {
	out := make([]string, 0, 9)
	for _, v := range []float64{
		r.Force.X, r.Force.Y, r.Force.Z,
		r.Torque.X, r.Torque.Y, r.Torque.Z,
		r.Point.X, r.Point.Y, r.Point.Z,
	} {
		out = append(out, formatFloat(v))
	}
	return out
}

func reactionFrom(v []float64) grfm.Reaction {
	return grfm.Reaction{
		Force:  r3.Vec{X: v[0], Y: v[1], Z: v[2]},
		Torque: r3.Vec{X: v[3], Y: v[4], Z: v[5]},
		Point:  r3.Vec{X: v[6], Y: v[7], Z: v[8]},
	}
}

// WriteOutputs writes one row per output in the OutputHeader layout.
func WriteOutputs(w io.Writer, outputs []grfm.Output) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(OutputHeader); err != nil {
		return err
	}
	for _, o := range outputs {
		row := append([]string{formatFloat(o.T)}, reactionRow(o.Right)...)
		row = append(row, reactionRow(o.Left)...)
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadOutputs parses a file written by WriteOutputs.
func ReadOutputs(r io.Reader) ([]grfm.Output, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(OutputHeader)

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}

	outputs := make([]grfm.Output, 0, len(records)-1)
	for i, rec := range records[1:] {
		vals := make([]float64, len(rec))
		for j, s := range rec {
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d column %s: %w", i+2, OutputHeader[j], err)
			}
			vals[j] = v
		}
		outputs = append(outputs, grfm.Output{
			T:     vals[0],
			Right: reactionFrom(vals[1:10]),
			Left:  reactionFrom(vals[10:19]),
		})
	}
	return outputs, nil
}
