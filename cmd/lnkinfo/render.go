package main

import (
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/joshuapare/lnkkit/pkg/lnk"
)

// report is the machine-readable view of a decoded shortcut.
type report struct {
	Path         string          `json:"path" yaml:"path"`
	Size         int64           `json:"size" yaml:"size"`
	Header       headerReport    `json:"header" yaml:"header"`
	TargetIDList *idListReport   `json:"target_id_list,omitempty" yaml:"target_id_list,omitempty"`
	LinkInfo     *linkInfoReport `json:"link_info,omitempty" yaml:"link_info,omitempty"`
	Strings      []stringReport  `json:"strings,omitempty" yaml:"strings,omitempty"`
	ExtraBlocks  []blockReport   `json:"extra_blocks,omitempty" yaml:"extra_blocks,omitempty"`
	Target       string          `json:"target,omitempty" yaml:"target,omitempty"`
	TrailingSize int64           `json:"trailing_size" yaml:"trailing_size"`
}

type headerReport struct {
	Flags       []string     `json:"flags" yaml:"flags"`
	Attributes  []string     `json:"attributes" yaml:"attributes"`
	Creation    lnk.Filetime `json:"creation_time" yaml:"creation_time"`
	Access      lnk.Filetime `json:"access_time" yaml:"access_time"`
	Write       lnk.Filetime `json:"write_time" yaml:"write_time"`
	FileSize    uint32       `json:"file_size" yaml:"file_size"`
	IconIndex   int32        `json:"icon_index" yaml:"icon_index"`
	ShowCommand string       `json:"show_command" yaml:"show_command"`
	HotKey      string       `json:"hot_key" yaml:"hot_key"`
}

type idListReport struct {
	Offset   int64    `json:"offset" yaml:"offset"`
	Items    []string `json:"items" yaml:"items"`
	Trailing int      `json:"trailing,omitempty" yaml:"trailing,omitempty"`
}

type linkInfoReport struct {
	Offset       int64  `json:"offset" yaml:"offset"`
	Size         uint32 `json:"size" yaml:"size"`
	Kind         string `json:"kind" yaml:"kind"`
	DriveType    string `json:"drive_type,omitempty" yaml:"drive_type,omitempty"`
	SerialNumber string `json:"serial_number,omitempty" yaml:"serial_number,omitempty"`
	VolumeLabel  string `json:"volume_label,omitempty" yaml:"volume_label,omitempty"`
	NetName      string `json:"net_name,omitempty" yaml:"net_name,omitempty"`
	DeviceName   string `json:"device_name,omitempty" yaml:"device_name,omitempty"`
	Provider     string `json:"provider,omitempty" yaml:"provider,omitempty"`
	BasePath     string `json:"base_path,omitempty" yaml:"base_path,omitempty"`
	Suffix       string `json:"suffix,omitempty" yaml:"suffix,omitempty"`
	Path         string `json:"path,omitempty" yaml:"path,omitempty"`
}

type stringReport struct {
	Kind  string `json:"kind" yaml:"kind"`
	Count uint16 `json:"count" yaml:"count"`
	Text  string `json:"text" yaml:"text"`
}

type blockReport struct {
	Offset    int64          `json:"offset" yaml:"offset"`
	Size      uint32         `json:"size" yaml:"size"`
	Signature string         `json:"signature" yaml:"signature"`
	Fields    map[string]any `json:"fields,omitempty" yaml:"fields,omitempty"`
}

func newReport(path string, f *lnk.File) (*report, error) {
	h, err := f.Header()
	if err != nil {
		return nil, err
	}
	r := &report{
		Path: path,
		Size: f.Size(),
		Header: headerReport{
			Flags:       h.Flags.Names(),
			Attributes:  h.Attributes.Names(),
			Creation:    h.Creation,
			Access:      h.Access,
			Write:       h.Write,
			FileSize:    h.FileSize,
			IconIndex:   h.IconIndex,
			ShowCommand: h.ShowCommand.String(),
			HotKey:      h.HotKey.String(),
		},
		TrailingSize: f.TrailingSize(),
	}

	if ids, err := f.TargetIDList(); err == nil {
		ir := &idListReport{Offset: ids.Offset, Trailing: len(ids.Trailing)}
		for _, it := range ids.Items {
			ir.Items = append(ir.Items, fmt.Sprintf("0x%08x size=%d %s", it.Offset, it.Size(), shortHex(it.Data, 16)))
		}
		r.TargetIDList = ir
	}

	if li, err := f.LinkInfo(); err == nil {
		r.LinkInfo = newLinkInfoReport(li)
	}

	for _, s := range f.Strings() {
		r.Strings = append(r.Strings, stringReport{Kind: s.Kind.String(), Count: s.Count, Text: s.String()})
	}

	blocks, err := f.ExtraBlocks()
	if err != nil {
		return nil, err
	}
	for _, b := range blocks {
		r.ExtraBlocks = append(r.ExtraBlocks, blockReport{
			Offset:    b.Offset,
			Size:      b.Size,
			Signature: b.Signature.String(),
			Fields:    blockFields(b.Data),
		})
	}

	if target, err := f.Target(); err == nil {
		r.Target = target
	}
	return r, nil
}

func newLinkInfoReport(li *lnk.LinkInfo) *linkInfoReport {
	lr := &linkInfoReport{Offset: li.Offset, Size: li.Size, Kind: li.Kind().String()}
	if v := li.Volume; v != nil {
		lr.DriveType = v.DriveType.String()
		lr.SerialNumber = fmt.Sprintf("%04X-%04X", v.SerialNumber>>16, v.SerialNumber&0xFFFF)
		lr.VolumeLabel = v.Label.String()
	}
	if n := li.Network; n != nil {
		lr.NetName = textOrRaw(n.Name())
		if n.ValidDevice() {
			lr.DeviceName = textOrRaw(n.Device())
		}
		if n.ValidNetType() {
			lr.Provider = n.ProviderType.String()
		}
	}
	lr.BasePath = textOrRaw(li.BasePath())
	lr.Suffix = textOrRaw(li.Suffix())
	lr.Path = textOrRaw(li.Path())
	return lr
}

// blockFields flattens a typed block payload for display.
func blockFields(data lnk.BlockData) map[string]any {
	switch b := data.(type) {
	case *lnk.EnvironmentVariablesBlock:
		return targetFields(b.TargetStrings)
	case *lnk.DarwinBlock:
		return targetFields(b.TargetStrings)
	case *lnk.IconEnvironmentBlock:
		return targetFields(b.TargetStrings)
	case *lnk.ConsoleBlock:
		return map[string]any{
			"fill_attributes":    fmt.Sprintf("0x%04x", b.FillAttributes),
			"screen_buffer_size": fmt.Sprintf("%dx%d", b.ScreenBufferSizeX, b.ScreenBufferSizeY),
			"window_size":        fmt.Sprintf("%dx%d", b.WindowSizeX, b.WindowSizeY),
			"window_origin":      fmt.Sprintf("%d,%d", b.WindowOriginX, b.WindowOriginY),
			"font_size":          b.FontSize,
			"font_weight":        b.FontWeight,
			"face_name":          b.FaceName.String(),
			"cursor_size":        b.CursorSize,
			"full_screen":        b.FullScreen != 0,
			"quick_edit":         b.QuickEdit != 0,
			"insert_mode":        b.InsertMode != 0,
			"history_buffers":    b.NumberOfHistoryBuffers,
		}
	case *lnk.TrackerBlock:
		fields := map[string]any{
			"machine_id":         b.MachineID.String(),
			"droid_volume":       b.DroidVolume.String(),
			"droid_file":         b.DroidFile.String(),
			"birth_droid_volume": b.BirthDroidVolume.String(),
			"birth_droid_file":   b.BirthDroidFile.String(),
		}
		if mac, ok := b.MACAddress(); ok {
			fields["mac_address"] = mac
		}
		if ts, ok := b.FileTimestamp(); ok {
			fields["droid_time"] = ts.UTC().Format("2006-01-02T15:04:05Z")
		}
		return fields
	case *lnk.ConsoleFEBlock:
		return map[string]any{"code_page": b.CodePage}
	case *lnk.SpecialFolderBlock:
		return map[string]any{"folder_id": b.FolderID, "offset": b.Offset}
	case *lnk.KnownFolderBlock:
		return map[string]any{"folder_id": b.FolderID.String(), "offset": b.Offset}
	case *lnk.ShimBlock:
		return map[string]any{"layer_name": b.LayerName.String()}
	case *lnk.VistaIDListBlock:
		return map[string]any{"items": len(b.IDList.Items)}
	case *lnk.PropertyStoreBlock:
		return propertyFields(b)
	case *lnk.OpaqueBlock:
		return map[string]any{"data": shortHex(b.Data, 32), "length": len(b.Data)}
	default:
		return nil
	}
}

func targetFields(t lnk.TargetStrings) map[string]any {
	return map[string]any{"ansi": t.ANSI.String(), "unicode": t.Unicode.String()}
}

func propertyFields(b *lnk.PropertyStoreBlock) map[string]any {
	fields := map[string]any{}
	for _, s := range b.Storages {
		for _, v := range s.Values {
			key := fmt.Sprintf("%s/%d", s.FormatID, v.ID)
			if v.Name != nil {
				key = fmt.Sprintf("%s/%s", s.FormatID, v.Name.String())
			}
			fields[key] = propertyValue(v)
		}
	}
	return fields
}

func propertyValue(v lnk.PropertyValue) string {
	switch val := v.Value.(type) {
	case lnk.EncodedString:
		return val.String()
	case lnk.Filetime:
		text, _ := val.MarshalText()
		return string(text)
	case lnk.GUID:
		return val.String()
	case []byte:
		return fmt.Sprintf("%s %s", v.Type, shortHex(val, 32))
	default:
		return fmt.Sprint(val)
	}
}

func textOrRaw(s string, err error) string {
	if err != nil {
		return "<" + err.Error() + ">"
	}
	return s
}

func shortHex(b []byte, limit int) string {
	if len(b) <= limit {
		return hex.EncodeToString(b)
	}
	return hex.EncodeToString(b[:limit]) + "..."
}

// printText renders r for humans.
func printText(r *report) {
	printInfo("File: %s\n", r.Path)
	printInfo("  Size: %s (%d bytes)\n", humanize.Bytes(uint64(r.Size)), r.Size)

	h := r.Header
	printInfo("\nHeader:\n")
	printInfo("  Flags: %s\n", strings.Join(h.Flags, ", "))
	printInfo("  Attributes: %s\n", strings.Join(h.Attributes, ", "))
	printInfo("  Created: %s\n", filetimeText(h.Creation))
	printInfo("  Accessed: %s\n", filetimeText(h.Access))
	printInfo("  Modified: %s\n", filetimeText(h.Write))
	printInfo("  Target size: %s\n", humanize.Bytes(uint64(h.FileSize)))
	printInfo("  Icon index: %d\n", h.IconIndex)
	printInfo("  Show command: %s\n", h.ShowCommand)
	printInfo("  Hot key: %s\n", h.HotKey)

	if ids := r.TargetIDList; ids != nil {
		printInfo("\nTarget ID list: %d item(s)\n", len(ids.Items))
		for _, it := range ids.Items {
			printInfo("  %s\n", it)
		}
	}

	if li := r.LinkInfo; li != nil {
		printInfo("\nLink info (%s):\n", li.Kind)
		if li.DriveType != "" {
			printInfo("  Drive type: %s\n", li.DriveType)
			printInfo("  Serial number: %s\n", li.SerialNumber)
			printInfo("  Volume label: %s\n", li.VolumeLabel)
		}
		if li.NetName != "" {
			printInfo("  Net name: %s\n", li.NetName)
		}
		if li.DeviceName != "" {
			printInfo("  Device: %s\n", li.DeviceName)
		}
		if li.Provider != "" {
			printInfo("  Provider: %s\n", li.Provider)
		}
		printInfo("  Path: %s\n", li.Path)
	}

	if len(r.Strings) > 0 {
		printInfo("\nStrings:\n")
		for _, s := range r.Strings {
			printInfo("  %s: %s\n", s.Kind, s.Text)
		}
	}

	if len(r.ExtraBlocks) > 0 {
		printInfo("\nExtra data blocks:\n")
		for _, b := range r.ExtraBlocks {
			printInfo("  %s at 0x%08x (%d bytes)\n", b.Signature, b.Offset, b.Size)
			keys := make([]string, 0, len(b.Fields))
			for k := range b.Fields {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				printInfo("    %s: %v\n", k, b.Fields[k])
			}
		}
	}

	if r.Target != "" {
		printInfo("\nTarget: %s\n", r.Target)
	}
	if r.TrailingSize > 0 {
		printInfo("Trailing data: %d bytes\n", r.TrailingSize)
	}
}

func filetimeText(f lnk.Filetime) string {
	if f.IsZero() {
		return "not set"
	}
	return f.Time().UTC().Format("2006-01-02 15:04:05.0000000 UTC")
}
