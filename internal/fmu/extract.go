// Package fmu is the extraction entry point: it opens an FMU, parses its
// model description and merges in the archive-level facts.
package fmu

import (
	"context"

	"github.com/halentin/FMI-Viewer/internal/archive"
	fmierrors "github.com/halentin/FMI-Viewer/internal/errors"
	"github.com/halentin/FMI-Viewer/internal/modeldesc"
	"github.com/halentin/FMI-Viewer/internal/models"
	"github.com/halentin/FMI-Viewer/internal/platform"
)

// DescriptorEntry is the required root entry holding the model description.
const DescriptorEntry = "modelDescription.xml"

// Extract reads the FMU at path and returns its model description merged with
// the archive entry list and platform set.
//
// Errors match errors.ErrArchive, errors.ErrMissingDescriptor or
// errors.ErrDescriptorSyntax, or are the context's error. Cancellation is
// observed between archive reads, never during the descriptor parse.
func Extract(ctx context.Context, path string) (*models.ParseResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	a, err := archive.Open(path)
	if err != nil {
		return nil, err
	}
	defer a.Close()

	entries := a.Entries()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, ok, err := a.ReadEntry(DescriptorEntry)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmierrors.MissingDescriptorError(path, DescriptorEntry)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result, err := modeldesc.ParseBytes(data)
	if err != nil {
		return nil, err
	}

	result.Platforms = platform.Detect(entries)
	result.Entries = withoutDescriptor(entries)
	return result, nil
}

func withoutDescriptor(entries []string) []string {
	out := make([]string, 0, len(entries))
	for _, name := range entries {
		if name == DescriptorEntry {
			continue
		}
		out = append(out, name)
	}
	return out
}
