package binlayout

import (
	"strings"
	"testing"
)

type describeLayout struct {
	Count uint16 `binlayout:"order=0,big=2"`
	Tag   []byte `binlayout:"order=1,bytes=2"`
	Name  string `binlayout:"order=2,ascii=4"`
}

func TestDescribeRendersHexDecimalAndQuotedStrings(t *testing.T) {
	v := describeLayout{Count: 0x0A, Tag: []byte{0xDE, 0xAD}, Name: "hiya"}
	got := Describe(v)

	for _, want := range []string{
		"Count: 0x000A (10)",
		"Tag: 0x[DEAD]",
		`Name: "hiya"`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("Describe() = %q, missing %q", got, want)
		}
	}
}

func TestDescribeSuppressesNilByteSlice(t *testing.T) {
	v := variableBlob{N: 0, Body: nil}
	got := Describe(v)
	if strings.Contains(got, "Body:") {
		t.Errorf("Describe() = %q, want the nil Body field suppressed", got)
	}
}
