package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/ragdex/ragdex"
	"google.golang.org/genai"
)

const askModel = "gemini-2.5-flash"

// Ensure Asker implements ragdex.Asker at compile time.
var _ ragdex.Asker = (*Asker)(nil)

// Asker implements ragdex.Asker using Google Gemini.
type Asker struct {
	client *genai.Client
}

// NewAsker creates a new Asker.
func NewAsker(client *genai.Client) *Asker {
	return &Asker{client: client}
}

// Ask answers the question using only the given retrieval results.
func (a *Asker) Ask(ctx context.Context, question string, results []ragdex.RetrievalResult) (string, error) {
	if question == "" {
		return "", ragdex.Errorf(ragdex.EINVALID, "question required")
	}
	if len(results) == 0 {
		return "", ragdex.Errorf(ragdex.ENOTFOUND, "no retrieved chunks to answer from")
	}

	prompt := BuildUserPrompt(results, question)
	config := BuildConfig()

	result, err := a.client.Models.GenerateContent(ctx, askModel,
		[]*genai.Content{{
			Parts: []*genai.Part{{Text: prompt}},
		}},
		config,
	)
	if err != nil {
		return "", err
	}
	if result == nil {
		return "", ragdex.Errorf(ragdex.EINTERNAL, "gemini returned nil result")
	}

	return result.Text(), nil
}

// BuildConfig returns the GenerateContentConfig for Gemini API calls.
func BuildConfig() *genai.GenerateContentConfig {
	temp := float32(0.4)
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{
				Text: "You are a helpful assistant answering questions about software documentation. Answer based only on the documentation chunks provided. If the answer is not in the chunks, say so. Cite source URLs when relevant.",
			}},
		},
		Temperature: &temp,
	}
}

// BuildUserPrompt builds the user prompt containing retrieved chunks and
// the question.
func BuildUserPrompt(results []ragdex.RetrievalResult, question string) string {
	var sb strings.Builder
	sb.WriteString("<chunks>\n")
	for i, r := range results {
		title := r.Title
		if title == "" {
			title = r.URL
		}
		sb.WriteString("<chunk>\n")
		fmt.Fprintf(&sb, "<index>%d</index>\n", i+1)
		fmt.Fprintf(&sb, "<title>%s</title>\n", title)
		fmt.Fprintf(&sb, "<source>%s</source>\n", r.URL)
		fmt.Fprintf(&sb, "<score>%.3f</score>\n", r.RelevanceScore)
		fmt.Fprintf(&sb, "<content>%s</content>\n", r.Content)
		sb.WriteString("</chunk>\n")
	}
	sb.WriteString("</chunks>\n\n")
	fmt.Fprintf(&sb, "Question: %s", question)
	return sb.String()
}
