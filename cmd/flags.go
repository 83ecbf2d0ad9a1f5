package cmd

import (
	"fmt"
	"image"
	"slices"
	"strings"

	"github.com/spf13/pflag"

	"github.com/oakwood-commons/skinkit/internal/parse"
	"github.com/oakwood-commons/skinkit/internal/ui"
)

// resolutionValue is a pflag.Value holding a WxH screen size. The zero value
// means unset.
type resolutionValue image.Point

var _ pflag.Value = (*resolutionValue)(nil)

func (r *resolutionValue) Set(s string) error {
	p, err := parse.Size(s)
	if err != nil {
		return err
	}
	*r = resolutionValue(p)
	return nil
}

func (r *resolutionValue) String() string {
	if *r == (resolutionValue{}) {
		return ""
	}
	return fmt.Sprintf("%dx%d", r.X, r.Y)
}

func (r *resolutionValue) Type() string {
	return "WxH"
}

// outputFormatValue is a pflag.Value restricted to the dump formats.
type outputFormatValue string

var _ pflag.Value = (*outputFormatValue)(nil)

func outputFormats() []string {
	return append([]string{"tree"}, ui.Formats...)
}

func (o *outputFormatValue) Set(s string) error {
	s = strings.ToLower(s)
	if !slices.Contains(outputFormats(), s) {
		return fmt.Errorf("invalid output format '%s' (valid: %s)", s, strings.Join(outputFormats(), ", "))
	}
	*o = outputFormatValue(s)
	return nil
}

func (o *outputFormatValue) String() string {
	return string(*o)
}

func (o *outputFormatValue) Type() string {
	return "format"
}
