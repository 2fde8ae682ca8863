// Package convert produces the thumbnail and medium renditions of each image
// with ImageMagick's convert.
package convert

import (
	"context"
	"fmt"

	"simplegallery/internal/toolexec"
)

// Profile selects one of the fixed argument templates.
type Profile int

const (
	ProfileThumbnail Profile = iota
	ProfileMedium
)

func (p Profile) String() string {
	switch p {
	case ProfileThumbnail:
		return "thumbnail"
	case ProfileMedium:
		return "medium"
	default:
		return fmt.Sprintf("profile(%d)", int(p))
	}
}

// ThumbnailArgs renders a captioned polaroid-style thumbnail on a 340x340 canvas.
func ThumbnailArgs(src, dst string) []string {
	return []string{
		"-size", "500x500", src,
		"-thumbnail", "200x200",
		"-set", "caption", "%t",
		"-bordercolor", "MintCream",
		"-background", "black",
		"-pointsize", "12",
		"-density", "96x96",
		"+polaroid",
		"-resize", "70%",
		"-gravity", "center",
		"-background", "white",
		"-extent", "340x340",
		"-trim",
		dst,
	}
}

// MediumArgs shrinks the image to fit within 800x600 without upscaling.
func MediumArgs(src, dst string) []string {
	return []string{"-resize", "800x600>", src, dst}
}

// Args returns the argument list for profile.
func Args(profile Profile, src, dst string) ([]string, error) {
	switch profile {
	case ProfileThumbnail:
		return ThumbnailArgs(src, dst), nil
	case ProfileMedium:
		return MediumArgs(src, dst), nil
	default:
		return nil, fmt.Errorf("unknown conversion profile %d", int(profile))
	}
}

// Converter runs convert through a toolexec runner. Failures are logged as
// warnings and reported to the caller without aborting the run.
type Converter struct {
	runner *toolexec.Runner
	binary string
}

// New constructs a converter for binary.
func New(runner *toolexec.Runner, binary string) *Converter {
	return &Converter{runner: runner, binary: binary}
}

// Convert renders src into dst with profile. The returned bool reports
// whether convert succeeded; the error is non-nil only when the run must stop.
func (c *Converter) Convert(ctx context.Context, profile Profile, src, dst string) (bool, error) {
	args, err := Args(profile, src, dst)
	if err != nil {
		return false, err
	}
	outcome, err := c.runner.Run(ctx, toolexec.Invocation{
		Tool:   "convert",
		Binary: c.binary,
		Args:   args,
		Policy: toolexec.PolicyWarn,
		Hint:   fmt.Sprintf("check that %s exists and is a readable image", src),
		Impact: fmt.Sprintf("%s rendition %s is missing from the gallery", profile, dst),
	})
	if err != nil {
		return false, err
	}
	return outcome.OK(), nil
}
