package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/joshuapare/lnkkit/pkg/lnk"
)

func runInfo(args []string) error {
	path := args[0]

	opts, err := decodeOptions()
	if err != nil {
		return err
	}
	logger.Debug("decoding shortcut", zap.String("path", path), zap.Stringer("codepage", opts.Codepage))

	f, err := lnk.Open(path, opts)
	if err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}

	r, err := newReport(path, f)
	if err != nil {
		return err
	}
	if structured, err := printStructured(r); structured {
		return err
	}

	printText(r)
	if verbose && !quiet {
		fmt.Fprintln(os.Stdout)
		return f.WriteOffsets(os.Stdout)
	}
	return nil
}
