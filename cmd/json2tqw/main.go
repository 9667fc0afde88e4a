/*
Json2tqw converts a world definition in the legacy JSON format into a
TQW 'DATA' format file.

It reads in a single JSON world file and writes the equivalent TQW
document to stdout, or to a file if one is given. Everything in the
input is carried over in its original order; nothing is checked for
world consistency, so a room exit that points at a label that does not
exist converts without complaint, same as it sat in the JSON.

Usage:

	json2tqw [flags] INPUT_FILE

The flags are:

	-v, --version
		Give the current version of json2tqw and then exit.

	-o, --output FILE
		Write the converted document to FILE instead of stdout. The
		file is only created if the entire document converts; a failed
		conversion leaves no partial file behind.

	--check
		Re-parse the produced document with the TQW reader before
		accepting it, and fail if it does not decode.

A missing top-level 'start' key is not fatal; a warning is printed to
stderr and the world table gets an empty start room.
*/
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/dekarrin/tqwconv"
	"github.com/dekarrin/tqwconv/internal/version"
	"github.com/spf13/pflag"
)

const (

	// ExitSuccess indicates a successful program execution.
	ExitSuccess = iota

	// ExitUsageError indicates an unsuccessful program execution due to
	// missing or extra command-line arguments.
	ExitUsageError

	// ExitParseError indicates an unsuccessful program execution due to
	// the input file not being well-formed JSON.
	ExitParseError

	// ExitIOError indicates an unsuccessful program execution due to a
	// file that could not be read or written, or produced output that
	// failed verification.
	ExitIOError
)

var (
	flagVersion = pflag.BoolP("version", "v", false, "Give the current version of json2tqw and then exit.")
	flagOutput  = pflag.StringP("output", "o", "", "Write the converted document to the given file instead of stdout.")
	flagCheck   = pflag.Bool("check", false, "Re-parse the produced document before accepting it.")
)

func main() {
	pflag.Parse()

	if *flagVersion {
		fmt.Printf("json2tqw v%s\n", version.Current)
		return
	}

	args := pflag.Args()

	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "Give name of file to convert as first argument\nDo -h for help.\n")
		os.Exit(ExitUsageError)
	}
	if len(args) > 1 {
		fmt.Fprintf(os.Stderr, "Too many arguments\nDo -h for help.\n")
		os.Exit(ExitUsageError)
	}

	opts := tqwconv.Options{
		Warnings: os.Stderr,
		Verify:   *flagCheck,
	}

	if err := tqwconv.ConvertFile(args[0], *flagOutput, opts); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())

		var parseErr *tqwconv.ParseError
		if errors.As(err, &parseErr) {
			os.Exit(ExitParseError)
		}
		os.Exit(ExitIOError)
	}
}
