// Copyright 2026 The VEXIS-CAE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package results parses the solver's rigid-body log output into a
// force-stroke series, writing a CSV and a PNG (spec.md §4.8), tolerant
// of duplicate lines, a truncated trailing line, and non-monotone
// stroke (the original implementation preserves parse order rather
// than sorting).
package results

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/cpmech/gosl/plt"
)

// Row is one rigid-body time-series entry: the solver's wall-clock
// "Time" header followed by a "Data" line of <rb_id> <disp_z> <force_z>.
type Row struct {
	Time        float64
	RigidBodyID int
	DispZ       float64
	ForceZ      float64
}

// ExtractorWarn reports a non-fatal condition: the log contained no
// rigid-body rows at all, so the CSV is header-only and no plot is
// produced. It never aborts a job (spec.md §7).
type ExtractorWarn struct {
	Path string
}

func (e *ExtractorWarn) Error() string {
	return fmt.Sprintf("results: no rigid-body rows found in %s", e.Path)
}

// ParseLog scans r for "Time = <t>" / "*Time = <t>" headers each
// followed eventually by a "Data" / "*Data" line whose next line holds
// "<rb_id> <disp_z> <force_z>". A Data header with no following line
// (a truncated trailing write) is silently discarded, matching the
// original parser's `if i+1 < len(lines)` guard.
func ParseLog(r io.Reader) ([]Row, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	var lines []string
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("results: reading log: %w", err)
	}

	var rows []Row
	var currentTime float64
	haveTime := false
	for i := 0; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		switch {
		case strings.HasPrefix(line, "*Time") || strings.HasPrefix(line, "Time"):
			if t, ok := parseAfterEquals(line); ok {
				currentTime = t
				haveTime = true
			}
		case strings.HasPrefix(line, "*Data") || strings.HasPrefix(line, "Data"):
			if i+1 >= len(lines) {
				continue // truncated trailing line
			}
			fields := strings.Fields(strings.TrimSpace(lines[i+1]))
			if len(fields) < 3 || !haveTime {
				continue
			}
			rbID, err1 := strconv.Atoi(fields[0])
			dispZ, err2 := strconv.ParseFloat(fields[1], 64)
			forceZ, err3 := strconv.ParseFloat(fields[2], 64)
			if err1 != nil || err2 != nil || err3 != nil {
				continue
			}
			rows = append(rows, Row{Time: currentTime, RigidBodyID: rbID, DispZ: dispZ, ForceZ: forceZ})
			i++ // consume the data line
		}
	}
	return rows, nil
}

func parseAfterEquals(line string) (float64, bool) {
	idx := strings.Index(line, "=")
	if idx < 0 {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(line[idx+1:]), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Series builds stroke/force columns from rows: stroke is the first
// row's DispZ minus the current row's DispZ (positive for downward
// travel), force is the negated Force_Z (reaction). Rows with a stroke
// value equal to one already emitted are dropped (exact-value dedup);
// surviving rows keep parse order even if stroke is non-monotone.
func Series(rows []Row) (strokes, forces []float64) {
	if len(rows) == 0 {
		return nil, nil
	}
	initialZ := rows[0].DispZ
	seen := make(map[float64]bool, len(rows))
	for _, r := range rows {
		stroke := initialZ - r.DispZ
		if seen[stroke] {
			continue
		}
		seen[stroke] = true
		strokes = append(strokes, stroke)
		forces = append(forces, -r.ForceZ)
	}
	return strokes, forces
}

// WriteCSV writes the two-column `stroke,force` CSV, ASCII, unix
// newlines, values at 6 significant figures (spec.md §6).
func WriteCSV(path string, strokes, forces []float64) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("results: creating %s: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if _, err := w.WriteString("stroke,force\n"); err != nil {
		return err
	}
	for i := range strokes {
		line := strconv.FormatFloat(strokes[i], 'g', 6, 64) + "," + strconv.FormatFloat(forces[i], 'g', 6, 64) + "\n"
		if _, err := w.WriteString(line); err != nil {
			return err
		}
	}
	return w.Flush()
}

// Plot renders the stroke-vs-force curve to a PNG at dirOut/name using
// the teacher's plotting package, the same Plot/Gll/SaveD path
// out/plotting.go uses for its own subplot curves.
func Plot(dirOut, name, title string, strokes, forces []float64) error {
	plt.Reset()
	plt.Plot(strokes, forces, "'-o', color='#2EE7FF', markersize=4, label='reaction'")
	plt.Gll("stroke (mm)", "reaction force (N)", "")
	plt.Title(title, "")
	plt.SaveD(dirOut, name)
	return nil
}

// Extract runs the full pipeline stage: parse logPath, write
// csvPath, and plot to dirOut/pngName. On zero rows it still writes a
// header-only CSV and skips the plot, returning an *ExtractorWarn
// (non-fatal, per spec.md §7) rather than a hard error.
func Extract(logPath, csvPath, dirOut, pngName, title string) error {
	f, err := os.Open(logPath)
	if err != nil {
		return fmt.Errorf("results: opening %s: %w", logPath, err)
	}
	defer f.Close()

	rows, err := ParseLog(f)
	if err != nil {
		return err
	}
	strokes, forces := Series(rows)
	if err := WriteCSV(csvPath, strokes, forces); err != nil {
		return err
	}
	if len(rows) == 0 {
		return &ExtractorWarn{Path: logPath}
	}
	return Plot(dirOut, pngName, title, strokes, forces)
}
