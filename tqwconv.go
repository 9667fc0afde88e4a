// Package tqwconv converts game world definitions from the legacy JSON
// format into TQW (TunaQuest Worlds) 'DATA' format files that the
// engine can load. The conversion is purely structural; labels are not
// checked against each other and no world consistency rules are
// applied.
package tqwconv

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/dekarrin/tqwconv/internal/tqw"
	"github.com/dekarrin/tqwconv/internal/worldjson"
)

// Options control a conversion.
type Options struct {
	// Warnings receives human-readable diagnostics for non-fatal
	// degradations, such as a missing top-level start room. If nil,
	// diagnostics are discarded.
	Warnings io.Writer

	// Verify re-parses the produced document with the TQW reader before
	// any of it is written to the destination, and fails the conversion
	// if it does not decode.
	Verify bool
}

// ParseError is the error returned when the input is not a well-formed
// JSON document.
type ParseError struct {
	cause error
}

func (e *ParseError) Error() string {
	return "malformed JSON in input: " + e.cause.Error()
}

// Unwrap gives the underlying decoder error.
func (e *ParseError) Unwrap() error {
	return e.cause
}

// Convert reads one JSON world document from r and writes its TQW
// rendition to w. A document that fails to decode produces a
// *ParseError and nothing is written. With opts.Verify set, output is
// staged in memory and only written to w after it has been re-parsed
// successfully; without it, output is streamed as it is produced.
func Convert(r io.Reader, w io.Writer, opts Options) error {
	doc, err := worldjson.Decode(r)
	if err != nil {
		return &ParseError{cause: err}
	}

	out := w
	var staged *bytes.Buffer
	if opts.Verify {
		staged = &bytes.Buffer{}
		out = staged
	}

	enc := tqw.NewEncoder(out, opts.Warnings)
	if err := enc.EncodeWorld(doc); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	if opts.Verify {
		if err := tqw.VerifyWorldData(staged.Bytes()); err != nil {
			return fmt.Errorf("verifying produced document: %w", err)
		}
		if _, err := w.Write(staged.Bytes()); err != nil {
			return fmt.Errorf("writing output: %w", err)
		}
	}

	return nil
}

// ConvertFile converts the document in the file at inPath. The result
// goes to the file at outPath, or to stdout if outPath is empty.
// Named-file output is all-or-nothing; if any part of the conversion
// fails, the output file is not created.
func ConvertFile(inPath string, outPath string, opts Options) error {
	f, err := os.Open(inPath)
	if err != nil {
		return fmt.Errorf("%q: %w", inPath, err)
	}
	defer f.Close()

	if outPath == "" {
		return Convert(f, os.Stdout, opts)
	}

	var staged bytes.Buffer
	if err := Convert(f, &staged, opts); err != nil {
		return err
	}

	if err := os.WriteFile(outPath, staged.Bytes(), 0666); err != nil {
		return fmt.Errorf("%q: %w", outPath, err)
	}
	return nil
}
