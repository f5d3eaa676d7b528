package cmd

import (
    "github.com/miguelfaf10/shot-box/internal"
)

// openRepo opens an existing repository and assembles the pipeline with its
// default collaborators. The returned cleanup releases the store and, when
// the exiftool reader is selected, the external process pool.
func openRepo(repoPath string, useExifTool bool) (*internal.Organizer, *internal.Store, func(), error) {
    cfg, err := internal.LoadConfig()
    if err != nil {
        return nil, nil, nil, err
    }

    store, logger, err := internal.OpenRepository(repoPath, cfg)
    if err != nil {
        return nil, nil, nil, err
    }

    reader, readerClose, err := newTagReader(useExifTool)
    if err != nil {
        store.Close()
        return nil, nil, nil, err
    }

    org := internal.NewOrganizer(
        repoPath,
        cfg,
        store,
        reader,
        internal.NewNominatimGeocoder(cfg),
        internal.NewHasher(cfg),
        logger,
    )

    cleanup := func() {
        readerClose()
        store.Close()
    }
    return org, store, cleanup, nil
}

func newTagReader(useExifTool bool) (internal.TagReader, func(), error) {
    if useExifTool {
        reader, err := internal.NewExiftoolReader()
        if err != nil {
            return nil, nil, err
        }
        return reader, func() { reader.Close() }, nil
    }
    return internal.NewGoexifReader(), func() {}, nil
}
