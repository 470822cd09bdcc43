package xyzrgb

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

const fieldsPerRecord = 6

type record struct {
	x, y, z float64
	r, g, b int
}

// LoadFile opens path and loads it with Load.
func LoadFile(path string) (*Cloud, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &FileOpenError{Path: path, Err: err}
	}
	defer f.Close()
	return Load(f)
}

// Load reads "x y z r g b" records, one per line, until the first line
// which does not supply six numeric fields. That line and everything after
// it are ignored. A complete record with a non-finite coordinate or a color
// channel outside [0, 255] fails the whole load.
//
// Seekable readers are scanned twice: once to validate and count, once to
// materialize exactly that many points. Other readers, including files
// which refuse to seek, are scanned once and the validated records are
// replayed.
func Load(r io.Reader) (*Cloud, error) {
	if s, ok := r.(io.Seeker); ok {
		// Pipes and FIFOs implement Seek but fail it.
		if start, err := s.Seek(0, io.SeekCurrent); err == nil {
			return loadSeekable(r, s, start)
		}
	}
	_, recs, err := scan(r, true)
	if err != nil {
		return nil, err
	}
	return newCloud(recs), nil
}

func loadSeekable(r io.Reader, s io.Seeker, start int64) (*Cloud, error) {
	n, _, err := scan(r, false)
	if err != nil {
		return nil, err
	}
	if _, err := s.Seek(start, io.SeekStart); err != nil {
		return nil, err
	}
	return materialize(r, n)
}

// scan validates leading records and returns how many there are.
// Records are collected only if keep is set.
func scan(r io.Reader, keep bool) (int, []record, error) {
	rb := bufio.NewReader(r)
	var recs []record
	var n int
	for {
		line, ok, err := readLine(rb)
		if err != nil {
			return 0, nil, err
		}
		if !ok {
			return n, recs, nil
		}
		rec, ok := parseRecord(line)
		if !ok {
			return n, recs, nil
		}
		if err := rec.validate(n + 1); err != nil {
			return 0, nil, err
		}
		n++
		if keep {
			recs = append(recs, rec)
		}
	}
}

func materialize(r io.Reader, n int) (*Cloud, error) {
	rb := bufio.NewReader(r)
	c := &Cloud{points: make([]Point, n)}
	for i := range c.points {
		line, ok, err := readLine(rb)
		if err != nil {
			return nil, err
		}
		var rec record
		if ok {
			rec, ok = parseRecord(line)
		}
		if !ok {
			return nil, fmt.Errorf("line %d: input changed between passes", i+1)
		}
		c.points[i] = rec.point()
	}
	return c, nil
}

func readLine(rb *bufio.Reader) (string, bool, error) {
	line, err := rb.ReadString('\n')
	switch {
	case err == io.EOF:
		return line, line != "", nil
	case err != nil:
		return "", false, err
	}
	return line, true, nil
}

// parseRecord returns false if the line does not supply six fields.
// Fields after the sixth are ignored, as is anything trailing the digits
// of the last channel ("6.5" and "6abc" read as 6).
func parseRecord(line string) (record, bool) {
	args := strings.Fields(line)
	if len(args) < fieldsPerRecord {
		return record{}, false
	}
	var rec record
	var ok [fieldsPerRecord]bool
	rec.x, ok[0] = parseCoord(args[0])
	rec.y, ok[1] = parseCoord(args[1])
	rec.z, ok[2] = parseCoord(args[2])
	rec.r, ok[3] = parseChannel(args[3])
	rec.g, ok[4] = parseChannel(args[4])
	rec.b, ok[5] = parseChannel(intPrefix(args[5]))
	for _, o := range ok {
		if !o {
			return record{}, false
		}
	}
	return rec, true
}

// parseCoord accepts out of range literals; they come back as ±Inf and
// are rejected by validate.
func parseCoord(s string) (float64, bool) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, false
	}
	return f, true
}

func parseChannel(s string) (int, bool) {
	i, err := strconv.Atoi(s)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, false
	}
	return i, true
}

// intPrefix returns the leading signed decimal integer of s, or s itself
// if it does not start with one.
func intPrefix(s string) string {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	j := i
	for j < len(s) && '0' <= s[j] && s[j] <= '9' {
		j++
	}
	if j == i {
		return s
	}
	return s[:j]
}

func (rec record) validate(line int) error {
	if !isFinite(rec.x) || !isFinite(rec.y) || !isFinite(rec.z) {
		return &MalformedCoordinateError{Line: line}
	}
	if !inByte(rec.r) || !inByte(rec.g) || !inByte(rec.b) {
		return &ColorOutOfRangeError{Line: line}
	}
	return nil
}

// point flips z to the renderer's axis convention.
func (rec record) point() Point {
	return Point{
		X: rec.x,
		Y: rec.y,
		Z: -rec.z,
		Color: Color{
			R: uint8(rec.r),
			G: uint8(rec.g),
			B: uint8(rec.b),
		},
	}
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func inByte(i int) bool {
	return 0 <= i && i <= 255
}
