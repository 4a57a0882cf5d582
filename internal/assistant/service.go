package assistant

import (
	"context"
	"fmt"
	"strings"

	"labvault-api/internal/document"

	"google.golang.org/genai"
	"gorm.io/gorm"
)

const summaryModel = "gemini-2.5-flash"

// Generator produces text from a prompt. The default implementation calls
// Gemini; tests inject their own.
type Generator func(ctx context.Context, prompt string) (string, error)

type AssistantService struct {
	DB     *gorm.DB
	Client *genai.Client

	// Generate overrides the model call when set.
	Generate Generator
}

// SummarizeLineage asks the model for a short narrative of a document's
// version history.
func (as *AssistantService) SummarizeLineage(ctx context.Context, lineageRootID uint) (string, error) {
	var versions []document.DocumentVersion
	err := as.DB.
		Where("lineage_root_id = ?", lineageRootID).
		Order("version_number ASC").
		Find(&versions).Error
	if err != nil {
		return "", err
	}
	if len(versions) == 0 {
		return "", fmt.Errorf("%w: lineage %d", document.ErrNotFound, lineageRootID)
	}

	prompt := buildSummaryPrompt(versions)

	generate := as.Generate
	if generate == nil {
		generate = as.generateWithGemini
	}

	summary, err := generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("generation error: %w", err)
	}
	if summary == "" {
		return "", fmt.Errorf("no response from Gemini")
	}
	return summary, nil
}

func buildSummaryPrompt(versions []document.DocumentVersion) string {
	var b strings.Builder
	b.WriteString("Summarize the revision history of the research document ")
	fmt.Fprintf(&b, "%q in two or three sentences. Mention notable changes ", versions[0].Title)
	b.WriteString("and restores. Do not invent details beyond the list below.\n\n")

	for _, v := range versions {
		fmt.Fprintf(&b, "- version %d, uploaded %s, %d bytes",
			v.VersionNumber, v.CreatedAt.Format("2006-01-02"), v.FileSize)
		if v.VersionComment != nil && *v.VersionComment != "" {
			fmt.Fprintf(&b, ", comment: %s", *v.VersionComment)
		}
		if v.IsLatest {
			b.WriteString(" (current)")
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (as *AssistantService) generateWithGemini(ctx context.Context, prompt string) (string, error) {
	genResp, err := as.Client.Models.GenerateContent(ctx, summaryModel, []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: prompt},
			},
		},
	}, nil)
	if err != nil {
		return "", err
	}

	for _, candidate := range genResp.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part.Text != "" {
				return part.Text, nil
			}
		}
	}
	return "", nil
}
