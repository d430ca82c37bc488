package slicer

import (
	"errors"
	"fmt"
	"path"
	"sort"
	"strconv"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/klauspost/compress/zip"
)

// layerEntry pairs an archive member with its parsed layer number.
type layerEntry struct {
	number int
	file   *zip.File
}

// scanArchive selects the layer images in the archive and orders them by
// layer number. Non-PNG members (configs, previews without the .png
// extension) are ignored. Every malformed entry is collected into one
// combined error so a broken archive reports all its problems at once.
func scanArchive(files []*zip.File) ([]layerEntry, error) {
	var merr *multierror.Error
	seen := make(map[int]string)
	entries := make([]layerEntry, 0, len(files))

	for _, f := range files {
		if f.FileInfo().IsDir() || !strings.EqualFold(path.Ext(f.Name), ".png") {
			continue
		}

		num, err := parseLayerNumber(f.Name)
		if err != nil {
			merr = multierror.Append(merr, fmt.Errorf("entry %q: %w", f.Name, err))
			continue
		}
		if prev, dup := seen[num]; dup {
			merr = multierror.Append(merr, fmt.Errorf("entry %q: duplicate layer number %d (already used by %q)", f.Name, num, prev))
			continue
		}
		seen[num] = f.Name
		entries = append(entries, layerEntry{number: num, file: f})
	}

	if len(entries) == 0 && merr.ErrorOrNil() == nil {
		merr = multierror.Append(merr, errors.New("archive contains no layer images"))
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].number < entries[j].number })

	return entries, merr.ErrorOrNil()
}

// parseLayerNumber extracts the trailing decimal run of a layer file's stem,
// so "layer00042.png", "42.png" and "slice_42.png" all map to 42.
func parseLayerNumber(name string) (int, error) {
	stem := strings.TrimSuffix(path.Base(name), path.Ext(name))

	i := len(stem)
	for i > 0 && stem[i-1] >= '0' && stem[i-1] <= '9' {
		i--
	}
	if i == len(stem) {
		return 0, errors.New("no layer number in file name")
	}

	num, err := strconv.Atoi(stem[i:])
	if err != nil {
		return 0, fmt.Errorf("layer number: %w", err)
	}

	return num, nil
}
