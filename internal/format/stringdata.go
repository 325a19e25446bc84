package format

// StringKind identifies one of the five string data fields.
type StringKind int

// String data kinds in on-disk order.
const (
	StringDescription StringKind = iota
	StringRelativePath
	StringWorkingDirectory
	StringCommandLineArguments
	StringIconLocation
)

// StringKinds lists every kind in the order the fields are stored.
var StringKinds = [...]StringKind{
	StringDescription,
	StringRelativePath,
	StringWorkingDirectory,
	StringCommandLineArguments,
	StringIconLocation,
}

var stringKindNames = [...]string{
	"description", "relative path", "working directory",
	"command line arguments", "icon location",
}

var stringKindFlags = [...]LinkFlags{
	FlagHasName, FlagHasRelativePath, FlagHasWorkingDir,
	FlagHasArguments, FlagHasIconLocation,
}

func (k StringKind) valid() bool { return k >= 0 && int(k) < len(stringKindNames) }

func (k StringKind) String() string {
	if !k.valid() {
		return "unknown string"
	}
	return stringKindNames[k]
}

// Flag returns the header bit announcing the field.
func (k StringKind) Flag() LinkFlags {
	if !k.valid() {
		return 0
	}
	return stringKindFlags[k]
}

// Present reports whether flags announce the field.
func (k StringKind) Present(flags LinkFlags) bool {
	return k.valid() && flags.Has(k.Flag())
}

// StringField is one decoded string data field. Count is the on-disk
// character count; the raw bytes span Count code units of the selected width.
type StringField struct {
	Kind  StringKind
	Count uint16
	EncodedString
}

// StringByteLen returns the byte length of count characters.
func StringByteLen(count uint16, unicode bool) int {
	if unicode {
		return int(count) * 2
	}
	return int(count)
}
