// Package tqw has functions for producing game data files in the TQW
// (TunaQuest Worlds) format, a TOML-based format that is used to define
// game worlds for the engine to run, and for re-reading produced files
// to confirm they decode.
package tqw

import (
	"unicode"

	"github.com/BurntSushi/toml"
)

// FormatName is the value every TQW file carries in its 'format' key.
const FormatName = "TUNA"

// TypeWorldData is the 'type' key value of a world data file.
const TypeWorldData = "DATA"

// FileInfo contains the essential information all TQW format files must
// contain. It can be obtained from a file by reading it into memory and
// calling ScanFileInfo on the bytes.
type FileInfo struct {
	Format string `toml:"format"`
	Type   string `toml:"type"`
}

// ScanFileInfo takes the given data bytes and attempts to read the TQW
// format common header info from it. The bytes are read up to the first
// instance of a table definition header and those bytes are parsed for
// the info. If there is an error reading the info, returns a non-nil
// error.
func ScanFileInfo(data []byte) (FileInfo, error) {
	// only run the toml parser up to the end of the top-lev table
	var topLevelEnd int = -1
	var onNewLine bool
	for b := range data {
		if onNewLine {
			if data[b] == '[' {
				topLevelEnd = b
				break
			}
		}

		if data[b] == '\n' {
			onNewLine = true
		} else if !unicode.IsSpace(rune(data[b])) {
			onNewLine = false
		}
	}

	scanData := data
	if topLevelEnd != -1 {
		scanData = data[:topLevelEnd]
	}

	var info FileInfo
	err := toml.Unmarshal(scanData, &info)
	return info, err
}
