package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/png"
	"iter"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/Fifi-Huo/UI-Color-Bot/internal/chat"
	"github.com/Fifi-Huo/UI-Color-Bot/internal/client"
	"github.com/Fifi-Huo/UI-Color-Bot/internal/colour"
	"github.com/Fifi-Huo/UI-Color-Bot/internal/config"
	"github.com/Fifi-Huo/UI-Color-Bot/internal/logging"
	"github.com/Fifi-Huo/UI-Color-Bot/internal/server"
)

// resetFlags restores every flag of cmd and its children to its default, since
// the command tree is shared package state.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// run executes the CLI with args and returns stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	t.Cleanup(func() { resetFlags(rootCmd) })

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(append(args, "--quiet"))
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writePNG(t *testing.T, c color.Color) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 40, 30))
	for y := range 30 {
		for x := range 40 {
			img.Set(x, y, c)
		}
	}
	path := filepath.Join(t.TempDir(), "solid.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRangeFlag(t *testing.T) {
	var r colour.Range
	f := newRangeFlag(&r, colour.Range{Min: 0.3, Max: 0.9})
	if f.String() != "0.3,0.9" {
		t.Errorf("String() = %q, want default", f.String())
	}

	tests := []struct {
		in      string
		want    colour.Range
		wantErr bool
	}{
		{"0.2,0.6", colour.Range{Min: 0.2, Max: 0.6}, false},
		{" 0 , 1 ", colour.Range{Min: 0, Max: 1}, false},
		{"0.5", colour.Range{}, true},
		{"0.8,0.2", colour.Range{}, true},
		{"0.1,1.5", colour.Range{}, true},
		{"low,high", colour.Range{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			r = colour.Range{Min: 0.3, Max: 0.9}
			err := f.Set(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Set(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && r != tt.want {
				t.Errorf("Set(%q) = %+v, want %+v", tt.in, r, tt.want)
			}
		})
	}
}

func TestChoiceFlag(t *testing.T) {
	var v string
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	choiceVarP(fs, &v, "format", "f", "table", "output format", "table", "json")

	if v != "table" {
		t.Errorf("default = %q, want table", v)
	}
	if err := fs.Parse([]string{"-f", "JSON"}); err != nil || v != "json" {
		t.Errorf("Parse(-f JSON) = %q, %v", v, err)
	}
	if err := fs.Parse([]string{"--format", "xml"}); err == nil {
		t.Error("Parse(--format xml) succeeded, want error")
	}
	if !strings.Contains(fs.Lookup("format").Usage, "table, json") {
		t.Errorf("usage = %q, want choices listed", fs.Lookup("format").Usage)
	}
}

func TestPaletteCommand(t *testing.T) {
	out, err := run(t, "palette", "#3366cc", "-t", "triadic", "-n", "3", "--seed", "7", "-f", "hex")
	if err != nil {
		t.Fatalf("palette error = %v", err)
	}
	lines := strings.Fields(out)
	if len(lines) != 3 {
		t.Fatalf("palette printed %d colours, want 3:\n%s", len(lines), out)
	}
	hex := regexp.MustCompile(`^#[0-9a-f]{6}$`)
	for _, l := range lines {
		if !hex.MatchString(l) {
			t.Errorf("line %q is not a hex colour", l)
		}
	}
	if lines[0] != "#3366cc" {
		t.Errorf("first colour = %s, want base colour", lines[0])
	}

	again, err := run(t, "palette", "#3366cc", "-t", "triadic", "-n", "3", "--seed", "7", "-f", "hex")
	if err != nil || again != out {
		t.Errorf("seeded palette not reproducible: %q vs %q (%v)", out, again, err)
	}
}

func TestPaletteCommandTable(t *testing.T) {
	out, err := run(t, "palette", "#ff5733", "--saturation", "0.4,0.7")
	if err != nil {
		t.Fatalf("palette error = %v", err)
	}
	for _, want := range []string{"complementary palette from #ff5733", "primary", "Usage suggestions:"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPaletteCommandErrors(t *testing.T) {
	tests := [][]string{
		{"palette", "red"},
		{"palette", "#3366cc", "-t", "rainbow"},
		{"palette", "#3366cc", "-n", "20"},
		{"palette", "#3366cc", "--lightness", "0.9,0.1"},
		{"palette"},
	}
	for _, args := range tests {
		t.Run(strings.Join(args, " "), func(t *testing.T) {
			if _, err := run(t, args...); err == nil {
				t.Errorf("%v succeeded, want error", args)
			}
		})
	}
}

func TestPaletteListTypes(t *testing.T) {
	out, err := run(t, "palette", "--list-types")
	if err != nil {
		t.Fatalf("palette --list-types error = %v", err)
	}
	for _, pt := range colour.PaletteTypes() {
		if !strings.Contains(out, string(pt)) {
			t.Errorf("output missing %s", pt)
		}
	}
}

func TestContrastCommand(t *testing.T) {
	out, err := run(t, "contrast", "#000000", "#ffffff")
	if err != nil {
		t.Fatalf("contrast error = %v", err)
	}
	for _, want := range []string{"21.00:1", "PASS", "protanopia", "Recommendations:"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	out, err = run(t, "contrast", "#777777", "#ffffff", "--level", "aaa", "--colourblind=false", "-f", "json")
	if err != nil {
		t.Fatalf("contrast json error = %v", err)
	}
	var report colour.Report
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	if report.Passes || report.Level != colour.LevelAAA || len(report.ColourBlind) != 0 {
		t.Errorf("report = %+v", report)
	}
}

func TestContrastCommandErrors(t *testing.T) {
	if _, err := run(t, "contrast", "#000000", "#fff"); err == nil {
		t.Error("short hex accepted")
	}
	if _, err := run(t, "contrast", "#000000", "#ffffff", "--level", "A"); err == nil {
		t.Error("level A accepted")
	}
}

func TestAuditCommand(t *testing.T) {
	out, err := run(t, "audit", "#000000", "#ffffff", "#777777")
	if err != nil {
		t.Fatalf("audit error = %v", err)
	}
	if !strings.Contains(out, "of 6 combinations meet WCAG AA") {
		t.Errorf("output:\n%s", out)
	}

	out, err = run(t, "audit", "#000000", "#ffffff", "--failing")
	if err != nil {
		t.Fatalf("audit --failing error = %v", err)
	}
	if strings.Contains(out, "Foreground") {
		t.Errorf("passing pairs listed with --failing:\n%s", out)
	}

	if _, err := run(t, "audit", "#000000"); err == nil {
		t.Error("single colour accepted")
	}
}

func TestExtractCommand(t *testing.T) {
	path := writePNG(t, color.RGBA{R: 0x34, G: 0x98, B: 0xdb, A: 255})

	out, err := run(t, "extract", path, "-f", "json")
	if err != nil {
		t.Fatalf("extract error = %v", err)
	}
	var got colour.Extraction
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	if len(got.Colors) != 1 || got.Colors[0].Hex != "#3498db" || got.Width != 40 || got.Height != 30 {
		t.Errorf("extraction = %+v", got)
	}

	dest := filepath.Join(t.TempDir(), "colours.txt")
	if _, err := run(t, "extract", path, "--seed-mode", "content", "-f", "hex", "-o", dest); err != nil {
		t.Fatalf("extract -o error = %v", err)
	}
	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(string(data)) == "" {
		t.Error("output file is empty")
	}
}

func TestExtractCommandErrors(t *testing.T) {
	path := writePNG(t, color.White)
	tests := [][]string{
		{"extract", filepath.Join(t.TempDir(), "missing.png")},
		{"extract", path, "-c", "0"},
		{"extract", path, "--min-percentage", "0.9"},
		{"extract", path, "--min-percentage", "NaN"},
		{"extract", path, "-a", "median"},
		{"extract", path, "--seed-mode", "lunar"},
	}
	for _, args := range tests {
		t.Run(strings.Join(args[2:], " "), func(t *testing.T) {
			if _, err := run(t, args...); err == nil {
				t.Errorf("%v succeeded, want error", args)
			}
		})
	}
}

func TestFormatExtraction(t *testing.T) {
	result := &colour.Extraction{
		Colors: []colour.DominantColour{
			{Hex: "#ff0000", RGB: colour.RGB{R: 255}, Percentage: 0.75, Name: "Red"},
			{Hex: "#0000ff", RGB: colour.RGB{B: 255}, Percentage: 0.25, Name: "Blue"},
		},
	}

	tests := []struct {
		format string
		want   []string
	}{
		{"table", []string{"75.0%", "25.0%", "Red", "rgb(0, 0, 255)"}},
		{"hex", []string{"#ff0000\n#0000ff\n"}},
		{"rgb", []string{"rgb(255, 0, 0)\nrgb(0, 0, 255)\n"}},
		{"json", []string{`"hex_code": "#ff0000"`}},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			got, err := formatExtraction(result, tt.format, false)
			if err != nil {
				t.Fatalf("formatExtraction() error = %v", err)
			}
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("output missing %q:\n%s", w, got)
				}
			}
		})
	}

	if _, err := formatExtraction(result, "yaml", false); err == nil {
		t.Error("unsupported format accepted")
	}
	if got, _ := formatExtraction(&colour.Extraction{}, "table", false); !strings.Contains(got, "no colour reached") {
		t.Errorf("empty extraction output = %q", got)
	}

	got, err := formatExtraction(result, "hex", true)
	if err != nil {
		t.Fatal(err)
	}
	want := colour.FormatColourWithLabel(colour.RGB{R: 255}, "#ff0000", 4) + "\n" +
		colour.FormatColourWithLabel(colour.RGB{B: 255}, "#0000ff", 4) + "\n"
	if got != want {
		t.Errorf("hex preview = %q, want %q", got, want)
	}
}

func TestPreviewNeedsTerminal(t *testing.T) {
	t.Setenv("NO_COLOR", "")
	path := writePNG(t, color.RGBA{R: 0x34, G: 0x98, B: 0xdb, A: 255})

	for _, args := range [][]string{
		{"extract", path, "--preview"},
		{"extract", path, "--preview", "-f", "hex"},
		{"palette", "#3366cc", "--preview", "--seed", "1"},
		{"palette", "#3366cc", "--preview", "--seed", "1", "-f", "hex"},
	} {
		t.Run(strings.Join(args[2:], " "), func(t *testing.T) {
			out, err := run(t, args...)
			if err != nil {
				t.Fatal(err)
			}
			if strings.Contains(out, "\x1b[") {
				t.Errorf("escape codes written to a non-terminal:\n%q", out)
			}
		})
	}

	dest := filepath.Join(t.TempDir(), "palette.txt")
	if _, err := run(t, "palette", "#3366cc", "--preview", "-f", "hex", "-o", dest); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Contains(data, []byte("\x1b[")) {
		t.Errorf("escape codes written to -o file: %q", data)
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version")
	if err != nil || !strings.HasPrefix(out, "colorbot version") {
		t.Errorf("version = %q, %v", out, err)
	}
}

func TestHealthCommand(t *testing.T) {
	app, err := server.New(config.Defaults(), logging.Discard(), nil)
	if err != nil {
		t.Fatal(err)
	}
	srv := httptest.NewServer(app.BuildRoutes(http.NewServeMux()))
	defer srv.Close()

	t.Setenv("EXTRACTION_URL", srv.URL)
	t.Setenv("PALETTE_URL", srv.URL)
	t.Setenv("ACCESSIBILITY_URL", srv.URL)

	out, err := run(t, "health", "-f", "json")
	if err != nil {
		t.Fatalf("health error = %v", err)
	}
	var statuses []client.HealthStatus
	if err := json.Unmarshal([]byte(out), &statuses); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	if len(statuses) != 3 || !statuses[0].Healthy {
		t.Errorf("statuses = %+v", statuses)
	}

	srv.Close()
	if _, err := run(t, "health"); !errors.Is(err, errUnhealthy) {
		t.Errorf("health against stopped server error = %v, want errUnhealthy", err)
	}
}

type scriptedLLM struct {
	answer []string
}

func (s scriptedLLM) Complete(context.Context, string, string) (string, error) {
	return strings.Join(s.answer, ""), nil
}

func (s scriptedLLM) Stream(context.Context, string, string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for _, chunk := range s.answer {
			if !yield(chunk, nil) {
				return
			}
		}
	}
}

func TestConverse(t *testing.T) {
	assistant := chat.NewAssistant(scriptedLLM{answer: []string{"Use ", "more ", "contrast."}}, nil)

	for _, stream := range []bool{false, true} {
		t.Run(map[bool]string{false: "reply", true: "stream"}[stream], func(t *testing.T) {
			chatStream, chatShowAnalysis = stream, true
			t.Cleanup(func() { chatStream, chatShowAnalysis = false, false })

			var out bytes.Buffer
			cmd := &cobra.Command{}
			cmd.SetOut(&out)
			cmd.SetContext(context.Background())

			if err := converse(cmd, assistant, "Is #777777 accessible on white?"); err != nil {
				t.Fatalf("converse() error = %v", err)
			}
			if !strings.HasSuffix(out.String(), "Use more contrast.\n") {
				t.Errorf("output = %q", out.String())
			}
			if !strings.Contains(out.String(), `"accessibility_check"`) {
				t.Errorf("analysis not printed: %q", out.String())
			}
		})
	}
}

func TestImageDataURI(t *testing.T) {
	path := writePNG(t, color.Black)

	uri, err := imageDataURI(path, 1<<20)
	if err != nil {
		t.Fatalf("imageDataURI() error = %v", err)
	}
	if !strings.HasPrefix(uri, "data:image/png;base64,") {
		t.Errorf("uri = %.40s...", uri)
	}
	if intent := chat.AnalyseIntent("analyse this image " + uri); !intent.HasImage {
		t.Error("data URI not recognised as an image")
	}

	if _, err := imageDataURI(path, 10); err == nil {
		t.Error("oversized image accepted")
	}

	text := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(text, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := imageDataURI(text, 0); err == nil {
		t.Error("text file accepted")
	}
}
