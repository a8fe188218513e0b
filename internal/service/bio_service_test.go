package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateBioWithinBound(t *testing.T) {
	completer := newFakeCompleter()
	completer.respondText("profile bios", `"Helping busy professionals feel human again | 1:1 coaching"`)

	svc := NewBioService(completer)
	bio, fellBack := svc.GenerateBio(context.Background(), completeProfile(), "summary")

	assert.False(t, fellBack)
	assert.Equal(t, "Helping busy professionals feel human again | 1:1 coaching", bio)
	assert.LessOrEqual(t, len([]rune(bio)), maxBioLen)
}

func TestGenerateBioTruncatesLongOutput(t *testing.T) {
	completer := newFakeCompleter()
	completer.respondText("profile bios", strings.Repeat("wellness every single day ", 20))

	svc := NewBioService(completer)
	bio, fellBack := svc.GenerateBio(context.Background(), completeProfile(), "")

	assert.False(t, fellBack)
	assert.LessOrEqual(t, len([]rune(bio)), maxBioLen)
	assert.True(t, strings.HasSuffix(bio, "..."))
}

func TestGenerateBioFallbackOnError(t *testing.T) {
	completer := newFakeCompleter()
	completer.respond("profile bios", func(string) (string, error) {
		return "", errors.New("model overloaded")
	})

	svc := NewBioService(completer)
	bio, fellBack := svc.GenerateBio(context.Background(), completeProfile(), "")

	assert.True(t, fellBack)
	assert.Contains(t, bio, "wellness coach")
	assert.LessOrEqual(t, len([]rune(bio)), maxBioLen)
}

func TestGenerateBioEmptyOutputFallsBack(t *testing.T) {
	completer := newFakeCompleter()
	completer.respondText("profile bios", `""`)

	svc := NewBioService(completer)
	bio, fellBack := svc.GenerateBio(context.Background(), completeProfile(), "")

	assert.True(t, fellBack)
	assert.NotEmpty(t, bio)
}
