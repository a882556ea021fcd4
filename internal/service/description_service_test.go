package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestDescriptionService_GenerateDescription(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		reply string
		err   error
		want  string
	}{
		{"generated text is trimmed", "  A soft cotton tee, barely worn.\n", nil, "A soft cotton tee, barely worn."},
		{"generator error", "", errors.New("503 service unavailable"), DescriptionFailed},
		{"blank reply", "   ", nil, DescriptionFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := new(MockTextGenerator)
			gen.On("Generate", ctx, mock.MatchedBy(func(prompt string) bool {
				return strings.Contains(prompt, `"white cotton tee"`)
			})).Return(tt.reply, tt.err).Once()

			svc := NewDescriptionService(gen, &NoOpLogger{})
			assert.Equal(t, tt.want, svc.GenerateDescription(ctx, " white cotton tee "))
			gen.AssertExpectations(t)
		})
	}
}

func TestDescriptionService_Disabled(t *testing.T) {
	svc := NewDescriptionService(nil, &NoOpLogger{})
	assert.Equal(t, DescriptionUnavailable, svc.GenerateDescription(context.Background(), "denim"))
}
