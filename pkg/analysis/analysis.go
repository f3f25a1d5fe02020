// Package analysis reads recorded session logs and measures how long the
// sensor stayed deflected.
package analysis

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// Record is one recorded reading.
type Record struct {
	Time       float64 // Seconds since midnight
	Voltage    float64
	Diff       float64
	Resistance float64
	Bottom     float64
	Top        float64
}

// Span is a stretch of records above a threshold.
type Span struct {
	Start    float64 // Seconds since midnight
	End      float64
	Duration float64 // Seconds
	StdDev   float64 // Population standard deviation of Rx over the span
	Count    int
}

const logFields = 8

// ParseTimestamp converts HH:MM:SS:ms to seconds.
func ParseTimestamp(ts string) (float64, error) {
	parts := strings.Split(strings.TrimSpace(ts), ":")
	if len(parts) != 4 {
		return 0, fmt.Errorf("invalid timestamp %q: expected HH:MM:SS:ms", ts)
	}

	var v [4]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return 0, fmt.Errorf("invalid timestamp %q: %w", ts, err)
		}
		v[i] = n
	}

	return float64(v[0]*3600+v[1]*60+v[2]) + float64(v[3])/1000, nil
}

// ReadLog parses a recorded log. Lines that do not parse are skipped.
// Format: HH:MM:SS:ms,v_out,v_diff,Rx,2,-2,Rbot,Rtop
func ReadLog(r io.Reader) ([]Record, error) {
	var records []Record

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		rec, err := parseRecord(scanner.Text())
		if err != nil {
			continue
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return records, fmt.Errorf("read log: %w", err)
	}
	return records, nil
}

func parseRecord(line string) (Record, error) {
	parts := strings.Split(strings.TrimSpace(line), ",")
	if len(parts) != logFields {
		return Record{}, fmt.Errorf("expected %d fields, got %d", logFields, len(parts))
	}

	ts, err := ParseTimestamp(parts[0])
	if err != nil {
		return Record{}, err
	}

	var vals [logFields - 1]float64
	for i, p := range parts[1:] {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return Record{}, fmt.Errorf("field %d: %w", i+2, err)
		}
		vals[i] = v
	}

	return Record{
		Time:       ts,
		Voltage:    vals[0],
		Diff:       vals[1],
		Resistance: vals[2],
		Bottom:     vals[5],
		Top:        vals[6],
	}, nil
}

// Window keeps the records whose resistance lies in [lower, upper].
func Window(records []Record, lower, upper float64) []Record {
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if r.Resistance >= lower && r.Resistance <= upper {
			out = append(out, r)
		}
	}
	return out
}

// AboveThreshold returns the span from the first to the last record whose
// resistance exceeds threshold, inclusive. Records in between count toward
// the deviation even if they dip below the threshold.
func AboveThreshold(records []Record, threshold float64) (Span, bool) {
	first, last := -1, -1
	for i, r := range records {
		if r.Resistance > threshold {
			if first < 0 {
				first = i
			}
			last = i
		}
	}
	if first < 0 {
		return Span{}, false
	}

	span := records[first : last+1]
	return Span{
		Start:    records[first].Time,
		End:      records[last].Time,
		Duration: records[last].Time - records[first].Time,
		StdDev:   stdDev(span),
		Count:    len(span),
	}, true
}

func stdDev(records []Record) float64 {
	var sum float64
	for _, r := range records {
		sum += r.Resistance
	}
	mean := sum / float64(len(records))

	var sq float64
	for _, r := range records {
		d := r.Resistance - mean
		sq += d * d
	}
	return math.Sqrt(sq / float64(len(records)))
}
