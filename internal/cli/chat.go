package cli

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Fifi-Huo/UI-Color-Bot/internal/chat"
)

var (
	chatStream       bool
	chatImage        string
	chatShowAnalysis bool
)

// chatCmd represents the chat command.
var chatCmd = &cobra.Command{
	Use:   "chat <message...>",
	Short: "Ask the UI colour assistant a question",
	Long: `Ask the design assistant a UI colour question.

Hex colours in the message (#RRGGBB) are checked for contrast and used to build
palettes; an attached image is analysed for its dominant colours. The results
are passed to Gemini together with the question.

Requires GOOGLE_API_KEY, or GENAI_BACKEND=vertex-ai with Google Cloud
application default credentials.

Examples:
  colorbot chat "Is #3366cc a good primary colour for a banking app?"
  colorbot chat --image screenshot.png "Suggest a palette for this image"
  colorbot chat --stream "How do I check contrast for #777777 on white?"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runChat,
}

func init() {
	chatCmd.Flags().BoolVar(&chatStream, "stream", false, "print the answer as it is generated")
	chatCmd.Flags().StringVar(&chatImage, "image", "", "attach an image file to the message")
	chatCmd.Flags().BoolVar(&chatShowAnalysis, "show-analysis", false, "print the colour analysis as JSON before the answer")
}

// newAssistant connects the chat assistant to the configured Gemini backend.
func newAssistant(ctx context.Context) (*chat.Assistant, error) {
	llm, err := chat.NewGenAI(ctx, chat.GenAIOptions{
		Backend: cfg.GenAIBackend,
		APIKey:  cfg.GoogleAPIKey,
		Model:   cfg.GenAIModel,
	})
	if err != nil {
		return nil, err
	}
	logger.Debug("connected to model", "backend", cfg.GenAIBackend, "model", llm.Model())
	return chat.NewAssistant(llm, logger.Named("chat")), nil
}

func runChat(cmd *cobra.Command, args []string) error {
	message := strings.Join(args, " ")
	if chatImage != "" {
		uri, err := imageDataURI(chatImage, cfg.ImageMaxBytes)
		if err != nil {
			return err
		}
		message += "\n" + uri
	}

	assistant, err := newAssistant(cmd.Context())
	if err != nil {
		return err
	}
	return converse(cmd, assistant, message)
}

// converse sends one message and prints the answer.
func converse(cmd *cobra.Command, assistant *chat.Assistant, message string) error {
	out := cmd.OutOrStdout()

	if !chatStream {
		reply, err := assistant.Reply(cmd.Context(), message)
		if err != nil {
			return err
		}
		if chatShowAnalysis {
			if err := writeJSON(out, reply.Analysis); err != nil {
				return err
			}
		}
		fmt.Fprintln(out, reply.Content)
		return nil
	}

	analysis, chunks, err := assistant.Stream(cmd.Context(), message)
	if err != nil {
		return err
	}
	if chatShowAnalysis {
		if err := writeJSON(out, analysis); err != nil {
			return err
		}
	}
	for chunk, err := range chunks {
		if err != nil {
			fmt.Fprintln(out)
			return fmt.Errorf("stream interrupted: %w", err)
		}
		fmt.Fprint(out, chunk)
	}
	fmt.Fprintln(out)
	return nil
}

// imageDataURI reads an image file and encodes it as a data:image URI.
func imageDataURI(path string, maxBytes int64) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}
	if maxBytes > 0 && info.Size() > maxBytes {
		return "", fmt.Errorf("image %s is %d bytes, limit is %d", path, info.Size(), maxBytes)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}
	mime := http.DetectContentType(data)
	if !strings.HasPrefix(mime, "image/") {
		return "", fmt.Errorf("%s is not an image (detected %s)", path, mime)
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}
