package types

import (
	"fmt"
	"strconv"
	"strings"
)

// Codepage identifies the Windows code page used to interpret 8-bit strings
// (string data without the Unicode flag, ANSI paths in LinkInfo and extra
// blocks). Values match the Windows code page numbers.
type Codepage int

const (
	CodepageOEMUS       Codepage = 437
	CodepageOEMLatin1   Codepage = 850
	CodepageThai        Codepage = 874
	CodepageShiftJIS    Codepage = 932
	CodepageGBK         Codepage = 936
	CodepageEUCKR       Codepage = 949
	CodepageBig5        Codepage = 950
	CodepageWindows1250 Codepage = 1250
	CodepageWindows1251 Codepage = 1251
	CodepageWindows1252 Codepage = 1252
	CodepageWindows1253 Codepage = 1253
	CodepageWindows1254 Codepage = 1254
	CodepageWindows1255 Codepage = 1255
	CodepageWindows1256 Codepage = 1256
	CodepageWindows1257 Codepage = 1257
	CodepageWindows1258 Codepage = 1258

	// DefaultCodepage is used when Options.Codepage is zero.
	DefaultCodepage = CodepageWindows1252
)

// Codepages lists every supported code page in ascending order.
var Codepages = []Codepage{
	CodepageOEMUS, CodepageOEMLatin1, CodepageThai, CodepageShiftJIS, CodepageGBK,
	CodepageEUCKR, CodepageBig5, CodepageWindows1250, CodepageWindows1251,
	CodepageWindows1252, CodepageWindows1253, CodepageWindows1254,
	CodepageWindows1255, CodepageWindows1256, CodepageWindows1257,
	CodepageWindows1258,
}

// Supported reports whether cp has a decoder.
func (cp Codepage) Supported() bool {
	for _, c := range Codepages {
		if c == cp {
			return true
		}
	}
	return false
}

func (cp Codepage) String() string {
	switch {
	case cp >= CodepageWindows1250 && cp <= CodepageWindows1258:
		return "windows-" + strconv.Itoa(int(cp))
	case cp == CodepageShiftJIS:
		return "shift_jis"
	case cp == CodepageGBK:
		return "gbk"
	case cp == CodepageEUCKR:
		return "euc-kr"
	case cp == CodepageBig5:
		return "big5"
	default:
		return "cp" + strconv.Itoa(int(cp))
	}
}

// ParseCodepage accepts a bare number ("1252"), a "cp"/"windows-" prefixed
// number, or one of the names returned by String.
func ParseCodepage(s string) (Codepage, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for _, cp := range Codepages {
		if cp.String() == name {
			return cp, nil
		}
	}
	name = strings.TrimPrefix(name, "windows-")
	name = strings.TrimPrefix(name, "cp")
	n, err := strconv.Atoi(name)
	if err != nil {
		return 0, fmt.Errorf("codepage %q: not a number or known name", s)
	}
	cp := Codepage(n)
	if !cp.Supported() {
		return 0, fmt.Errorf("codepage %q: unsupported", s)
	}
	return cp, nil
}
