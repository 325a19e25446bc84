package format

import (
	"errors"
	"fmt"
	"unicode/utf16"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"

	"github.com/joshuapare/lnkkit/pkg/types"
)

var codepageEncodings = map[types.Codepage]encoding.Encoding{
	types.CodepageOEMUS:       charmap.CodePage437,
	types.CodepageOEMLatin1:   charmap.CodePage850,
	types.CodepageThai:        charmap.Windows874,
	types.CodepageShiftJIS:    japanese.ShiftJIS,
	types.CodepageGBK:         simplifiedchinese.GBK,
	types.CodepageEUCKR:       korean.EUCKR,
	types.CodepageBig5:        traditionalchinese.Big5,
	types.CodepageWindows1250: charmap.Windows1250,
	types.CodepageWindows1251: charmap.Windows1251,
	types.CodepageWindows1252: charmap.Windows1252,
	types.CodepageWindows1253: charmap.Windows1253,
	types.CodepageWindows1254: charmap.Windows1254,
	types.CodepageWindows1255: charmap.Windows1255,
	types.CodepageWindows1256: charmap.Windows1256,
	types.CodepageWindows1257: charmap.Windows1257,
	types.CodepageWindows1258: charmap.Windows1258,
}

var (
	errOddLength         = errors.New("odd byte count in UTF-16 data")
	errUnpairedSurrogate = errors.New("unpaired UTF-16 surrogate")
)

// DecodeCodepage converts 8-bit text in code page cp to UTF-8. ASCII input
// is returned without going through a decoder.
func DecodeCodepage(b []byte, cp types.Codepage) (string, error) {
	if isASCII(b) {
		return string(b), nil
	}
	if cp == 0 {
		cp = types.DefaultCodepage
	}
	enc, ok := codepageEncodings[cp]
	if !ok {
		return "", fmt.Errorf("no decoder for %s", cp)
	}
	out, err := enc.NewDecoder().Bytes(b)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// DecodeUTF16 converts UTF-16LE to UTF-8. Odd-length input and unpaired
// surrogates are errors rather than U+FFFD.
func DecodeUTF16(b []byte) (string, error) {
	if len(b)%2 != 0 {
		return "", errOddLength
	}
	units := make([]uint16, len(b)/2)
	for i := range units {
		units[i] = uint16(b[2*i]) | uint16(b[2*i+1])<<8
	}
	out := make([]byte, 0, len(units))
	for i := 0; i < len(units); i++ {
		u := units[i]
		switch {
		case u < 0xD800 || u > 0xDFFF:
			out = utf8.AppendRune(out, rune(u))
		case u <= 0xDBFF && i+1 < len(units) && units[i+1] >= 0xDC00 && units[i+1] <= 0xDFFF:
			out = utf8.AppendRune(out, utf16.DecodeRune(rune(u), rune(units[i+1])))
			i++
		default:
			return "", fmt.Errorf("%w at code unit %d", errUnpairedSurrogate, i)
		}
	}
	return string(out), nil
}

func isASCII(b []byte) bool {
	for _, c := range b {
		if c >= 0x80 {
			return false
		}
	}
	return true
}

// EncodedString holds raw on-disk text and what is needed to decode it.
// Decoding happens in Text, never during the structural decode.
type EncodedString struct {
	Section  string
	Offset   int64 // absolute file offset of Raw
	Raw      []byte
	Wide     bool // UTF-16LE when set, otherwise Codepage
	Codepage types.Codepage
}

// Len returns the raw byte length.
func (s EncodedString) Len() int { return len(s.Raw) }

// Text decodes the string. Failures are ErrKindEncoding; Raw stays valid.
func (s EncodedString) Text() (string, error) {
	var (
		out string
		err error
	)
	if s.Wide {
		out, err = DecodeUTF16(s.Raw)
	} else {
		out, err = DecodeCodepage(s.Raw, s.Codepage)
	}
	if err != nil {
		return "", types.Encoding(s.Section, s.Offset, err)
	}
	return out, nil
}

// String returns the decoded text, or a hex rendering of Raw when the bytes
// cannot be decoded.
func (s EncodedString) String() string {
	t, err := s.Text()
	if err != nil {
		return fmt.Sprintf("<undecodable %x>", s.Raw)
	}
	return t
}
