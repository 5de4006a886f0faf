package main

import (
	"bytes"
	"strings"
	"testing"
)

const sampleOutput = `goos: linux
goarch: amd64
pkg: github.com/treykane/cli-timeline/internal/render
BenchmarkRender/shots_1000-8         	  200000	      5400 ns/op
BenchmarkRender/shots_10000-8        	  200000	      5600 ns/op
BenchmarkRender/shots_100000-8       	  200000	      5900 ns/op
BenchmarkHitTest-8                   	 5000000	       230.5 ns/op
PASS
`

func TestParseBenchmarkOutput(t *testing.T) {
	got, err := parseBenchmarkOutput(strings.NewReader(sampleOutput))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("expected 4 results, got %v", got)
	}
	if got["BenchmarkHitTest"] != 230.5 {
		t.Fatalf("hit test ns/op: got %v", got["BenchmarkHitTest"])
	}
	if got["BenchmarkRender/shots_100000"] != 5900 {
		t.Fatalf("render ns/op: got %v", got["BenchmarkRender/shots_100000"])
	}
}

func TestParseBenchmarkOutputEmpty(t *testing.T) {
	if _, err := parseBenchmarkOutput(strings.NewReader("PASS\n")); err == nil {
		t.Fatal("expected error for output without benchmarks")
	}
}

func TestCompareBenchmarksFlagsRegression(t *testing.T) {
	current, err := parseBenchmarkOutput(strings.NewReader(sampleOutput))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	baseline := map[string]float64{
		"BenchmarkRender/shots_1000":   5000,
		"BenchmarkRender/shots_10000":  5000,
		"BenchmarkRender/shots_100000": 4000,
	}
	rows, err := compareBenchmarks(baseline, current, 20)
	if err != nil {
		t.Fatalf("compare: %v", err)
	}
	results := map[string]bool{}
	for _, row := range rows {
		results[row.name] = row.pass
	}
	want := map[string]bool{
		"BenchmarkHitTest":             true, // no baseline
		"BenchmarkRender/shots_1000":   true,
		"BenchmarkRender/shots_10000":  true,
		"BenchmarkRender/shots_100000": false,
	}
	for name, pass := range want {
		if results[name] != pass {
			t.Fatalf("%s: got pass=%v, want %v", name, results[name], pass)
		}
	}

	var buf bytes.Buffer
	writeMarkdownReport(rows, 20, &buf)
	if !strings.Contains(buf.String(), "| BenchmarkRender/shots_100000 | 4000 | 5900 | +47.50% | FAIL |") {
		t.Fatalf("unexpected report:\n%s", buf.String())
	}
}

func TestCompareBenchmarksRequiresCurrent(t *testing.T) {
	if _, err := compareBenchmarks(nil, map[string]float64{"BenchmarkHitTest": 1}, 20); err == nil {
		t.Fatal("expected error for missing current benchmarks")
	}
}
