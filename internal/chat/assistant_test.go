package chat

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/png"
	"iter"
	"strings"
	"testing"
)

type fakeLLM struct {
	system string
	prompt string
	reply  string
	chunks []string
	err    error
}

func (f *fakeLLM) Complete(_ context.Context, system, prompt string) (string, error) {
	f.system, f.prompt = system, prompt
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func (f *fakeLLM) Stream(_ context.Context, system, prompt string) iter.Seq2[string, error] {
	f.system, f.prompt = system, prompt
	return func(yield func(string, error) bool) {
		for _, c := range f.chunks {
			if !yield(c, nil) {
				return
			}
		}
		if f.err != nil {
			yield("", f.err)
		}
	}
}

func solidDataURI(t *testing.T, c color.Color) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 20, 20))
	for y := range 20 {
		for x := range 20 {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode() error = %v", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestAnalyseImageAndPalette(t *testing.T) {
	a := NewAssistant(&fakeLLM{}, nil)
	msg := "Analyze this image and suggest a palette: " + solidDataURI(t, color.RGBA{R: 0x34, G: 0x98, B: 0xdb, A: 255})

	got := a.Analyse(context.Background(), msg)

	if got.Extraction == nil {
		t.Fatal("Extraction = nil, want result")
	}
	if len(got.Extraction.Colors) != 1 || got.Extraction.Colors[0].Hex != "#3498db" {
		t.Errorf("Extraction.Colors = %+v, want single #3498db", got.Extraction.Colors)
	}
	if len(got.Palettes) != len(suggestedPalettes) {
		t.Fatalf("len(Palettes) = %d, want %d", len(got.Palettes), len(suggestedPalettes))
	}
	for _, p := range got.Palettes {
		if p.Base != "#3498db" {
			t.Errorf("palette %s base = %s, want #3498db", p.Type, p.Base)
		}
	}
	if len(got.Accessibility) != 0 {
		t.Errorf("Accessibility = %+v, want none", got.Accessibility)
	}
}

func TestAnalyseContrastFromHex(t *testing.T) {
	a := NewAssistant(&fakeLLM{}, nil)
	got := a.Analyse(context.Background(), "Is #777777 accessible as text?")

	if len(got.Accessibility) != 1 {
		t.Fatalf("len(Accessibility) = %d, want 1", len(got.Accessibility))
	}
	check := got.Accessibility[0]
	if check.Colour != "#777777" {
		t.Errorf("Colour = %s, want #777777", check.Colour)
	}
	if check.OnWhite.PassesAANormal {
		t.Error("OnWhite.PassesAANormal = true, want false")
	}
	if !check.OnBlack.PassesAANormal {
		t.Error("OnBlack.PassesAANormal = false, want true")
	}
}

func TestAnalyseUndecodableImage(t *testing.T) {
	a := NewAssistant(&fakeLLM{}, nil)
	got := a.Analyse(context.Background(), "analyze this image data:image/png;base64,bm90IGFuIGltYWdl")
	if got.Extraction != nil {
		t.Errorf("Extraction = %+v, want nil", got.Extraction)
	}
	if !got.Empty() {
		t.Error("Empty() = false, want true")
	}
}

func TestAnalyseExtractionGate(t *testing.T) {
	msg := "analyze this image " + solidDataURI(t, color.RGBA{R: 255, A: 255})

	var acquired, released int
	a := NewAssistant(&fakeLLM{}, nil)
	a.SetExtractionGate(func(context.Context) (func(), error) {
		acquired++
		return func() { released++ }, nil
	})
	if got := a.Analyse(context.Background(), msg); got.Extraction == nil {
		t.Fatal("Extraction = nil, want result")
	}
	if acquired != 1 || released != 1 {
		t.Errorf("gate acquired %d, released %d, want 1 and 1", acquired, released)
	}

	if got := a.Analyse(context.Background(), "Is #777777 accessible?"); got.Extraction != nil || acquired != 1 {
		t.Errorf("gate used without an image: acquired = %d", acquired)
	}

	a.SetExtractionGate(func(ctx context.Context) (func(), error) {
		return nil, context.DeadlineExceeded
	})
	if got := a.Analyse(context.Background(), msg); got.Extraction != nil {
		t.Errorf("Extraction = %+v, want nil when the gate refuses", got.Extraction)
	}
}

func TestBuildPrompt(t *testing.T) {
	t.Run("no analysis passes message through", func(t *testing.T) {
		got := BuildPrompt("hello", &Analysis{})
		if got != "hello" {
			t.Errorf("BuildPrompt() = %q, want %q", got, "hello")
		}
	})

	t.Run("analysis strips image data", func(t *testing.T) {
		a := NewAssistant(&fakeLLM{}, nil)
		msg := "analyze this image " + solidDataURI(t, color.RGBA{R: 255, A: 255})
		prompt := BuildPrompt(msg, a.Analyse(context.Background(), msg))

		if strings.Contains(prompt, "base64") {
			t.Error("prompt still contains image data")
		}
		for _, want := range []string{"Colour analysis data", "#ff0000", "100.0%"} {
			if !strings.Contains(prompt, want) {
				t.Errorf("prompt missing %q:\n%s", want, prompt)
			}
		}
	})
}

func TestReply(t *testing.T) {
	llm := &fakeLLM{reply: "Use a darker grey."}
	a := NewAssistant(llm, nil)

	got, err := a.Reply(context.Background(), "What palette suits #3498db?")
	if err != nil {
		t.Fatalf("Reply() error = %v", err)
	}
	if got.Content != "Use a darker grey." {
		t.Errorf("Content = %q", got.Content)
	}
	if llm.system != SystemPrompt {
		t.Error("system prompt was not sent")
	}
	if !strings.Contains(llm.prompt, "Generated palettes") {
		t.Errorf("prompt = %q, want palette section", llm.prompt)
	}
}

func TestReplyErrors(t *testing.T) {
	t.Run("empty message", func(t *testing.T) {
		a := NewAssistant(&fakeLLM{}, nil)
		if _, err := a.Reply(context.Background(), "   "); !errors.Is(err, ErrEmptyMessage) {
			t.Errorf("Reply() error = %v, want ErrEmptyMessage", err)
		}
	})

	t.Run("llm failure", func(t *testing.T) {
		boom := errors.New("quota exceeded")
		a := NewAssistant(&fakeLLM{err: boom}, nil)
		if _, err := a.Reply(context.Background(), "hi"); !errors.Is(err, boom) {
			t.Errorf("Reply() error = %v, want %v", err, boom)
		}
	})
}

func TestStream(t *testing.T) {
	llm := &fakeLLM{chunks: []string{"Hello", ", ", "world"}}
	a := NewAssistant(llm, nil)

	analysis, chunks, err := a.Stream(context.Background(), "hi")
	if err != nil {
		t.Fatalf("Stream() error = %v", err)
	}
	if analysis == nil {
		t.Fatal("analysis = nil")
	}

	var b strings.Builder
	for chunk, err := range chunks {
		if err != nil {
			t.Fatalf("chunk error = %v", err)
		}
		b.WriteString(chunk)
	}
	if b.String() != "Hello, world" {
		t.Errorf("streamed = %q, want %q", b.String(), "Hello, world")
	}
}
