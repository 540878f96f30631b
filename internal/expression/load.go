package expression

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/rs/zerolog/log"
)

// openReader opens path, transparently decompressing .gz files. The returned
// closer closes both the gzip stream and the underlying file.
func openReader(path string) (io.Reader, func() error, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", path, err)
	}
	if !strings.HasSuffix(path, ".gz") {
		return f, f.Close, nil
	}
	gz, err := gzip.NewReader(f)
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("gzip reader for %s: %w", path, err)
	}
	closer := func() error {
		gzErr := gz.Close()
		if err := f.Close(); err != nil {
			return err
		}
		return gzErr
	}
	return gz, closer, nil
}

// parseValue converts one matrix cell. Empty fields and the usual missing-value
// markers become NaN rather than failing the load.
func parseValue(field string) (float64, error) {
	switch field {
	case "", "NA", "NaN", "nan", "null":
		return nan, nil
	}
	v, err := strconv.ParseFloat(field, 64)
	if err != nil {
		return 0, err
	}
	return v, nil
}

// LoadMatrixTSV reads a tab-separated genes x samples matrix. The first row
// holds sample identifiers (first cell is a corner label and is ignored);
// every following row is a gene identifier followed by one value per sample.
func LoadMatrixTSV(path string) (*Matrix, error) {
	r, closeFn, err := openReader(path)
	if err != nil {
		return nil, err
	}
	defer closeFn()

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 1<<20), 1<<24)

	if !sc.Scan() {
		return nil, fmt.Errorf("%s: empty matrix file", path)
	}
	header := strings.Split(sc.Text(), "\t")
	if len(header) < 2 {
		return nil, fmt.Errorf("%s: header has no sample columns", path)
	}
	samples := header[1:]

	genes, values, err := scanRows(sc, path, len(samples))
	if err != nil {
		return nil, err
	}

	m, err := NewMatrix(genes, samples, values)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	log.Info().
		Str("path", path).
		Int("genes", m.NumGenes()).
		Int("samples", m.NumSamples()).
		Msg("loaded expression matrix")
	return m, nil
}

// LoadMatrixGCT reads a GCT 1.2 file: a "#1.2" version line, a dimensions
// line, then a header with Name and Description columns before the sample
// identifiers. The Description column is dropped.
func LoadMatrixGCT(path string) (*Matrix, error) {
	r, closeFn, err := openReader(path)
	if err != nil {
		return nil, err
	}
	defer closeFn()

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 1<<20), 1<<24)

	if !sc.Scan() {
		return nil, fmt.Errorf("%s: empty GCT file", path)
	}
	if version := strings.TrimSpace(sc.Text()); !strings.HasPrefix(version, "#1.2") {
		return nil, fmt.Errorf("%s: unsupported GCT version line %q", path, version)
	}
	if !sc.Scan() {
		return nil, fmt.Errorf("%s: missing GCT dimensions line", path)
	}
	dims := strings.Fields(sc.Text())
	if len(dims) != 2 {
		return nil, fmt.Errorf("%s: malformed GCT dimensions line %q", path, sc.Text())
	}
	wantGenes, err := strconv.Atoi(dims[0])
	if err != nil {
		return nil, fmt.Errorf("%s: GCT gene count: %w", path, err)
	}

	if !sc.Scan() {
		return nil, fmt.Errorf("%s: missing GCT header line", path)
	}
	header := strings.Split(sc.Text(), "\t")
	if len(header) < 3 {
		return nil, fmt.Errorf("%s: GCT header has no sample columns", path)
	}
	samples := header[2:]

	genes, values, err := scanGCTRows(sc, path, len(samples))
	if err != nil {
		return nil, err
	}
	if len(genes) != wantGenes {
		log.Warn().
			Str("path", path).
			Int("declared", wantGenes).
			Int("found", len(genes)).
			Msg("GCT row count does not match dimensions line")
	}

	m, err := NewMatrix(genes, samples, values)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	log.Info().
		Str("path", path).
		Int("genes", m.NumGenes()).
		Int("samples", m.NumSamples()).
		Msg("loaded GCT expression matrix")
	return m, nil
}

func scanRows(sc *bufio.Scanner, path string, numSamples int) (genes []string, values []float64, err error) {
	line := 1
	for sc.Scan() {
		line++
		fields := strings.Split(sc.Text(), "\t")
		if len(fields) != numSamples+1 {
			return nil, nil, fmt.Errorf("%s:%d: row has %d columns, want %d", path, line, len(fields), numSamples+1)
		}
		genes = append(genes, fields[0])
		for _, f := range fields[1:] {
			v, err := parseValue(f)
			if err != nil {
				return nil, nil, fmt.Errorf("%s:%d: gene %s: %w", path, line, fields[0], err)
			}
			values = append(values, v)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", path, err)
	}
	return genes, values, nil
}

func scanGCTRows(sc *bufio.Scanner, path string, numSamples int) (genes []string, values []float64, err error) {
	line := 3
	for sc.Scan() {
		line++
		fields := strings.Split(sc.Text(), "\t")
		if len(fields) != numSamples+2 {
			return nil, nil, fmt.Errorf("%s:%d: row has %d columns, want %d", path, line, len(fields), numSamples+2)
		}
		genes = append(genes, fields[0])
		for _, f := range fields[2:] {
			v, err := parseValue(f)
			if err != nil {
				return nil, nil, fmt.Errorf("%s:%d: gene %s: %w", path, line, fields[0], err)
			}
			values = append(values, v)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", path, err)
	}
	return genes, values, nil
}

// LoadLabels reads a two-column sample-to-group TSV and aligns it to the
// matrix's sample order. Samples whose group equals tumorGroup
// (case-insensitive) are labeled Tumor, everything else Control. Every matrix
// sample must appear in the file.
func LoadLabels(path string, samples []string, tumorGroup string) (Labels, error) {
	r, closeFn, err := openReader(path)
	if err != nil {
		return nil, err
	}
	defer closeFn()

	groups := make(map[string]string)
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Split(text, "\t")
		if len(fields) != 2 {
			return nil, fmt.Errorf("%s:%d: want two tab-separated columns, got %d", path, line, len(fields))
		}
		groups[fields[0]] = fields[1]
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	labels := make(Labels, len(samples))
	tumors := 0
	for i, s := range samples {
		group, ok := groups[s]
		if !ok {
			return nil, fmt.Errorf("%s: no group for sample %q", path, s)
		}
		if strings.EqualFold(group, tumorGroup) {
			labels[i] = Tumor
			tumors++
		} else {
			labels[i] = Control
		}
	}
	log.Info().
		Str("path", path).
		Int("samples", len(labels)).
		Int("tumor", tumors).
		Int("control", len(labels)-tumors).
		Msg("loaded sample labels")
	return labels, nil
}
