package export

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/san-kum/nbodysim/internal/dynamo"
	"github.com/san-kum/nbodysim/internal/sim"
	"github.com/san-kum/nbodysim/internal/viz"
	"gonum.org/v1/gonum/spatial/r3"
)

func testSet() *dynamo.BodySet {
	return dynamo.NewBodySetFrom([]dynamo.Body{
		{Mass: 5, Radius: 1},
		{Position: r3.Vec{X: 1, Y: 2, Z: 3}, Velocity: r3.Vec{Z: -1}, Mass: 2, Radius: 0.5},
	})
}

func TestCSVWriter(t *testing.T) {
	var buf bytes.Buffer
	w := NewCSVWriter(&buf, 2)
	bs := testSet()

	for tick := uint64(1); tick <= 4; tick++ {
		w.OnTick(bs, dynamo.TickStats{Tick: tick, SimTime: float64(tick) * 10})
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	// header + 2 sampled ticks x 2 bodies
	if len(rows) != 5 {
		t.Fatalf("got %d rows, want 5", len(rows))
	}
	if strings.Join(rows[0], ",") != strings.Join(csvHeader, ",") {
		t.Errorf("header = %v", rows[0])
	}
	want := []string{"2", "20", "1", "1", "2", "3", "0", "0", "-1", "2", "0.5"}
	if strings.Join(rows[2], ",") != strings.Join(want, ",") {
		t.Errorf("row = %v, want %v", rows[2], want)
	}
}

func TestJSONLWriter(t *testing.T) {
	var buf bytes.Buffer
	w := NewJSONLWriter(&buf, 1)
	w.OnTick(testSet(), dynamo.TickStats{Tick: 7, SimTime: 1.5})
	if err := w.Err(); err != nil {
		t.Fatal(err)
	}

	sc := bufio.NewScanner(&buf)
	var recs []BodyRecord
	for sc.Scan() {
		var r BodyRecord
		if err := json.Unmarshal(sc.Bytes(), &r); err != nil {
			t.Fatalf("line %q: %v", sc.Text(), err)
		}
		recs = append(recs, r)
	}
	if len(recs) != 2 {
		t.Fatalf("got %d records, want 2", len(recs))
	}
	if recs[1].Tick != 7 || recs[1].Position != [3]float64{1, 2, 3} || recs[1].Mass != 2 {
		t.Errorf("record = %+v", recs[1])
	}
}

func TestWriteSummary(t *testing.T) {
	result := &sim.Result{
		Frames:     2,
		SimTime:    20,
		Metrics:    map[string]float64{"energy_drift": 0.01},
		Trajectory: []r3.Vec{{X: 1}, {X: 2}},
	}
	s := NewSummary(result)
	s.Bodies, s.Discipline = 3, "snapshot"

	var buf bytes.Buffer
	if err := WriteSummary(&buf, s); err != nil {
		t.Fatal(err)
	}
	var got Summary
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.Frames != 2 || got.Bodies != 3 || len(got.Trajectory) != 2 || got.Trajectory[1][0] != 2 {
		t.Errorf("summary = %+v", got)
	}
}

func TestCanvasToSVG(t *testing.T) {
	c := viz.NewCanvas(2, 1)
	c.Set(0, 0)
	c.Set(3, 3)

	var buf bytes.Buffer
	if err := CanvasToSVG(&buf, c, 4, "#00ff00"); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if n := strings.Count(out, "<circle"); n != 2 {
		t.Errorf("got %d circles, want 2", n)
	}
	if !strings.HasSuffix(out, "</svg>\n") {
		t.Error("svg not closed")
	}
}

func TestTrajectoryToSVG(t *testing.T) {
	var buf bytes.Buffer
	if err := TrajectoryToSVG(&buf, []r3.Vec{{X: 0}}, 100, 100, "red"); err == nil {
		t.Error("expected error for a single point")
	}

	pts := []r3.Vec{{X: 0, Z: 0}, {X: 10, Z: 5}, {X: 20, Z: 0}}
	if err := TrajectoryToSVG(&buf, pts, 100, 100, "red"); err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(buf.String(), " L"); n != 2 {
		t.Errorf("path has %d segments, want 2", n)
	}
}
