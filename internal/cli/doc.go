// Package cli implements the retro command-line interface.
//
// The cli package provides the Cobra-based commands that parse a season's
// event files into rows (parse), re-parse them and compare against the run
// catalog (verify), list the column registry (schema), unpack season
// archives (unpack), and inspect the data directory and recorded runs
// (files, runs). It coordinates the config, storage, roster, parser and
// catalog packages; output is text or JSON.
package cli
