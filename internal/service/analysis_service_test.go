package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnalyzeReturnsCollaboratorSummary(t *testing.T) {
	completer := newFakeCompleter()
	completer.respondText("analyze content requests", "The user wants a launch-focused feed.")

	svc := NewAnalysisService(completer)
	summary, fellBack := svc.Analyze(context.Background(), "plan my product launch month", completeProfile())

	assert.False(t, fellBack)
	assert.Equal(t, "The user wants a launch-focused feed.", summary)
}

func TestAnalyzeFallbackOnError(t *testing.T) {
	completer := newFakeCompleter()
	completer.respond("analyze content requests", func(string) (string, error) {
		return "", errors.New("model overloaded")
	})

	svc := NewAnalysisService(completer)
	summary, fellBack := svc.Analyze(context.Background(), "plan my launch", completeProfile())

	assert.True(t, fellBack)
	assert.Contains(t, summary, "warm")
	assert.Contains(t, summary, "wellness coach")
	assert.Contains(t, summary, "busy professionals")
}
