package popgen

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/carbocation/pfx"
)

// ReadFASTA parses FASTA records from r and assembles them into an
// alignment. Blank lines and ';' comment lines are ignored. Every record
// must have the same sequence length.
func ReadFASTA(r io.Reader) (*Alignment, error) {
	var (
		names []string
		seqs  [][]byte
	)

	sc := bufio.NewScanner(r)
	// Tolerate unwrapped records whose whole sequence sits on one line.
	const maxLine = 64 * 1024 * 1024
	sc.Buffer(make([]byte, 64*1024), maxLine)

	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, ";") {
			continue
		}
		if strings.HasPrefix(line, ">") {
			names = append(names, strings.TrimSpace(line[1:]))
			seqs = append(seqs, nil)
			continue
		}
		if len(seqs) == 0 {
			return nil, errors.New("popgen: sequence data before the first FASTA header")
		}
		seqs[len(seqs)-1] = append(seqs[len(seqs)-1], line...)
	}
	if err := sc.Err(); err != nil {
		return nil, pfx.Err(err)
	}
	if len(names) == 0 {
		return nil, errors.New("popgen: no FASTA records found")
	}

	return NewAlignment(names, seqs)
}

// OpenFASTA reads a FASTA alignment from path, expanding a leading ~ and
// transparently decompressing gzip, zip, xz, zlib, or bzip2 input.
func OpenFASTA(path string) (*Alignment, error) {
	f, err := os.Open(ExpandHome(path))
	if err != nil {
		return nil, pfx.Err(err)
	}
	defer f.Close()

	r, err := MaybeDecompressReadCloserFromFile(f)
	if err != nil {
		return nil, pfx.Err(err)
	}
	defer r.Close()

	a, err := ReadFASTA(r)
	if err != nil {
		return nil, fmt.Errorf("popgen: reading %s: %w", path, err)
	}

	return a, nil
}
