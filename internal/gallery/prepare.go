package gallery

import (
	"context"
	"fmt"

	"simplegallery/internal/assets"
	"simplegallery/internal/exif"
	"simplegallery/internal/logging"
	"simplegallery/internal/scanner"
	"simplegallery/internal/sidecar"
)

const unsafeNamesWarning = "Warning: Some of the files contain characters that could lead to problems " +
	"with your web server. Try removing whitespaces, umlauts, special characters for HTTP and other " +
	"non-ASCII characters"

// Prepare scans opts.Dir and (re)writes its sg.json. Existing titles are not
// preserved; every run produces a fresh manifest.
func (p *Pipeline) Prepare(ctx context.Context, opts Options) error {
	if err := validateDir(opts.Dir); err != nil {
		return err
	}
	logger := logging.WithContext(ctx, p.logger)
	layout := NewLayout(opts.Dir)

	p.printf("Creating file *%s* in %s\n", sidecar.FileName, opts.Dir)
	p.println("  Modify this file to exclude images, add descriptions etc.")
	p.printf("Creating directory *%s*\n", WebDirName)
	p.println("  I am going to store all not so important data there.")
	p.printf("  Think of excluding %s from your backup.\n", WebDirName)
	p.println("  Everything can re-generated, promise!")

	if err := layout.Ensure(); err != nil {
		return err
	}
	unlock, err := p.acquireLock(ctx, layout)
	if err != nil {
		return err
	}
	defer unlock()

	if err := assets.Stage(layout.Web); err != nil {
		return err
	}

	reader := p.reader
	if reader == nil {
		reader = exif.New(p.cfg, p.runner, p.logger)
	}
	defer func() {
		if err := reader.Close(); err != nil {
			logger.Debug("close exif reader failed", logging.Error(err))
		}
	}()

	result, err := scanner.Scan(ctx, opts.Dir, scanner.Options{
		Reader: reader,
		Logger: p.logger,
		OnImage: func(scanner.Image) {
			p.printf(".")
			p.metrics.ImageHandled(CommandPrepare.String())
		},
	})
	p.println()
	if err != nil {
		return fmt.Errorf("scan %s: %w", opts.Dir, err)
	}
	p.metrics.EXIFFailures(result.EXIFFailures)

	if len(result.BadNames) > 0 {
		p.println(unsafeNamesWarning)
		logging.WarnWithContext(logger, "file names need URL escaping", "unsafe_file_names",
			logging.Any("names", result.BadNames),
			logging.String(logging.FieldErrorHint, "rename the files to plain ASCII without spaces"),
			logging.String(logging.FieldImpact, "some web servers may not serve these images"),
		)
	}

	paths := result.Paths()
	if err := sidecar.Write(opts.Dir, sidecar.FromPaths(paths)); err != nil {
		return err
	}
	logger.Info("sidecar written", logging.String("path", layout.Sidecar), logging.Int("images", len(paths)))

	if opts.Archive {
		if err := p.archive(ctx, layout, baseNames(paths)); err != nil {
			return err
		}
	}
	return nil
}
