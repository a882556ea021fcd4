package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/platform/logger"
)

const (
	DescriptionUnavailable = "AI description generation is unavailable. Please write a description manually."
	DescriptionFailed      = "There was an error generating the description. Please try again or write one manually."
)

type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type DescriptionService interface {
	GenerateDescription(ctx context.Context, keywords string) string
}

type descriptionService struct {
	generator TextGenerator
	log       logger.Logger
}

// NewDescriptionService treats a nil generator as disabled.
func NewDescriptionService(generator TextGenerator, log logger.Logger) DescriptionService {
	return &descriptionService{generator: generator, log: log}
}

func descriptionPrompt(keywords string) string {
	return fmt.Sprintf(
		"Write a product listing description for a second-hand fashion marketplace using these keywords: %q. "+
			"Mention the key features and the condition if given, suggest one way to style the item, "+
			"stay under 80 words, keep a friendly tone and do not use markdown.",
		keywords,
	)
}

func (s *descriptionService) GenerateDescription(ctx context.Context, keywords string) string {
	if s.generator == nil {
		return DescriptionUnavailable
	}
	text, err := s.generator.Generate(ctx, descriptionPrompt(strings.TrimSpace(keywords)))
	if err != nil {
		s.log.Errorf("Description generation failed: %v", err)
		return DescriptionFailed
	}
	text = strings.TrimSpace(text)
	if text == "" {
		s.log.Warn("Description generator returned an empty text")
		return DescriptionFailed
	}
	return text
}
