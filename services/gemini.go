package services

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const geminiDefaultModel = "gemini-2.0-flash"

// geminiRequestTimeout bounds one generation call. QCM generation retries per
// chunk, so a hung request must not stall the whole course.
const geminiRequestTimeout = 90 * time.Second

// GeminiGenerateText sends one prompt to Gemini and returns the raw text.
// The model is GEMINI_MODEL when set, gemini-2.0-flash otherwise.
func GeminiGenerateText(prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", fmt.Errorf("empty prompt")
	}

	ctx, cancel := context.WithTimeout(context.Background(), geminiRequestTimeout)
	defer cancel()

	client, err := genai.NewClient(ctx, option.WithAPIKey(os.Getenv("GEMINI_API_KEY")))
	if err != nil {
		return "", fmt.Errorf("cannot create Gemini client: %v", err)
	}
	defer client.Close()

	modelName := os.Getenv("GEMINI_MODEL")
	if modelName == "" {
		modelName = geminiDefaultModel
	}

	model := client.GenerativeModel(modelName)
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("Gemini request failed: %v", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("Gemini returned no usable candidate")
	}
	return fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0]), nil
}
