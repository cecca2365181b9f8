package cli

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/Fifi-Huo/UI-Color-Bot/internal/colour"
)

// rangeFlag is a "min,max" flag stored in a colour.Range.
type rangeFlag struct {
	r *colour.Range
}

var _ pflag.Value = (*rangeFlag)(nil)

func newRangeFlag(r *colour.Range, def colour.Range) *rangeFlag {
	*r = def
	return &rangeFlag{r: r}
}

func (f *rangeFlag) Set(s string) error {
	parts := strings.Split(s, ",")
	values := make([]float64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return fmt.Errorf("invalid number %q", p)
		}
		values = append(values, v)
	}
	r, err := colour.RangeFromSlice(values)
	if err != nil {
		return err
	}
	*f.r = r
	return nil
}

func (f *rangeFlag) String() string {
	if f.r == nil {
		return ""
	}
	return strconv.FormatFloat(f.r.Min, 'g', -1, 64) + "," + strconv.FormatFloat(f.r.Max, 'g', -1, 64)
}

func (f *rangeFlag) Type() string { return "min,max" }

// choiceFlag is a string flag limited to a fixed set of values.
type choiceFlag struct {
	value   *string
	choices []string
}

var _ pflag.Value = (*choiceFlag)(nil)

func (f *choiceFlag) Set(s string) error {
	s = strings.ToLower(strings.TrimSpace(s))
	if !slices.Contains(f.choices, s) {
		return fmt.Errorf("must be one of %s", strings.Join(f.choices, ", "))
	}
	*f.value = s
	return nil
}

func (f *choiceFlag) String() string {
	if f.value == nil {
		return ""
	}
	return *f.value
}

func (f *choiceFlag) Type() string { return "string" }

// choiceVarP registers a choiceFlag with a default.
func choiceVarP(fs *pflag.FlagSet, p *string, name, shorthand, def, usage string, choices ...string) {
	*p = def
	fs.VarP(&choiceFlag{value: p, choices: choices}, name, shorthand,
		fmt.Sprintf("%s (%s)", usage, strings.Join(choices, ", ")))
}

func stringsOf[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}

// writeOutput writes rendered output to path, or to stdout when path is empty.
func writeOutput(cmd *cobra.Command, path, output string) error {
	if path == "" {
		_, err := fmt.Fprint(cmd.OutOrStdout(), output)
		return err
	}
	verbosef(cmd, "Writing output to: %s", path)
	if err := os.WriteFile(path, []byte(output), 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}

// previewEnabled gates colour swatches: they are printed only to stdout and
// only when stdout is a colour terminal.
func previewEnabled(cmd *cobra.Command, requested bool, outputPath string) bool {
	return requested && outputPath == "" && colour.SupportsANSIColours(cmd.OutOrStdout())
}

func yesNo(ok bool) string {
	if ok {
		return "yes"
	}
	return "no"
}

func percent(f float64) string {
	return strconv.FormatFloat(f*100, 'f', 1, 64) + "%"
}
