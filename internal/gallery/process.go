package gallery

import (
	"context"
	"errors"
	"path/filepath"

	"simplegallery/internal/convert"
	"simplegallery/internal/logging"
	"simplegallery/internal/render"
	"simplegallery/internal/services"
	"simplegallery/internal/sidecar"
)

// Process renders the gallery described by opts.Dir's sg.json. Nothing is
// written when the manifest is missing or malformed. Conversion failures are
// logged and the image is still listed on the index.
func (p *Pipeline) Process(ctx context.Context, opts Options) error {
	if err := validateDir(opts.Dir); err != nil {
		return err
	}
	logger := logging.WithContext(ctx, p.logger)
	layout := NewLayout(opts.Dir)

	records, err := sidecar.Load(opts.Dir)
	if err != nil {
		p.printLoadDiagnostic(layout, err)
		return err
	}

	if err := layout.Ensure(); err != nil {
		return err
	}
	unlock, err := p.acquireLock(ctx, layout)
	if err != nil {
		return err
	}
	defer unlock()

	page := render.Context{
		Title:  p.cfg.GalleryTitle(opts.Dir),
		Images: make([]render.Entry, 0, len(records)),
	}
	members := make([]string, 0, len(records))
	var failed int
	for _, record := range records {
		if record.Filename == "" {
			logging.WarnWithContext(logger, "skipping record without filename", "sidecar_record_invalid",
				logging.String("title", record.Title),
				logging.String(logging.FieldErrorHint, "set a filename or remove the entry from "+sidecar.FileName),
				logging.String(logging.FieldImpact, "entry is left out of the gallery"),
			)
			continue
		}
		// Filenames are relative to the working directory, as prepare wrote them.
		src := record.Filename
		base := filepath.Base(src)

		thumbOK, err := p.converter.Convert(ctx, convert.ProfileThumbnail, src, layout.ThumbnailPath(base))
		if err != nil {
			return err
		}
		medOK, err := p.converter.Convert(ctx, convert.ProfileMedium, src, layout.MediumPath(base))
		if err != nil {
			return err
		}
		if !thumbOK || !medOK {
			failed++
		}

		page.Images = append(page.Images, render.Entry{TnFilename: base, Title: record.Title})
		members = append(members, base)
		p.metrics.ImageHandled(CommandProcess.String())
		p.printf(".")
	}
	p.println()

	p.println("Generating index file")

	if opts.Archive {
		if err := p.archive(ctx, layout, members); err != nil {
			return err
		}
	}

	if layout.HasArchive() {
		p.println("I found an archive. This will be part of the gallery")
		page.Archive = ArchiveName
	}

	if err := render.WriteIndex(layout.Index, page); err != nil {
		return err
	}

	attrs := []logging.Attr{
		logging.String("index", layout.Index),
		logging.Int("images", len(page.Images)),
		logging.Bool("archive", page.Archive != ""),
	}
	if failed > 0 {
		attrs = append(attrs, logging.Int("conversion_failures", failed))
	}
	logger.Info("gallery rendered", logging.Args(attrs...)...)
	return nil
}

func (p *Pipeline) printLoadDiagnostic(layout Layout, err error) {
	switch {
	case errors.Is(err, sidecar.ErrMalformed):
		p.println(sidecar.FileName + " is not valid json.")
	default:
		p.println("Could not open " + layout.Sidecar)
	}
	if hint := services.Hint(err); hint != "" {
		p.println(hint)
	}
}
