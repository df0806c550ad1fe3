package popgen

import (
	"bytes"
	"strings"
	"testing"
)

func TestDetermineDelimiter(t *testing.T) {
	for _, v := range []struct {
		Input string
		Delim rune
	}{
		{"a,b,c\nd,e,f\ng,h,i\n", ','},
		{"a\tb\tc\nd\te\tf\ng\th\ti\n", '\t'},
		{"a;b;c\nd;e;f\ng;h;i\n", ';'},
	} {
		if got := DetermineDelimiter(strings.NewReader(v.Input)); got != v.Delim {
			t.Fatalf("input %q: got %q, want %q", v.Input, got, v.Delim)
		}
	}
}

func TestDetectDataType(t *testing.T) {
	for _, v := range []struct {
		Name  string
		Input []byte
		Want  DataType
	}{
		{"gzip", []byte{0x1f, 0x8b, 0x08, 0x00, 0x00, 0x00}, DataTypeGzip},
		{"zip", []byte{0x50, 0x4b, 0x03, 0x04, 0x14, 0x00}, DataTypeZip},
		{"xz", []byte{0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00}, DataTypeXZ},
		{"bzip2", []byte{0x42, 0x5a, 0x68, 0x39, 0x31, 0x41}, DataTypeBZip2},
		{"plain text", []byte("Sample"), DataTypeNoCompression},
		{"short plain text", []byte("a,b"), DataTypeNoCompression},
	} {
		got, err := DetectDataType(bytes.NewReader(v.Input))
		if err != nil {
			t.Fatalf("%s: %v", v.Name, err)
		}
		if got != v.Want {
			t.Fatalf("%s: got %d, want %d", v.Name, got, v.Want)
		}
	}
}
