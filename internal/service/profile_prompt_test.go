package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildProfilePrompt(t *testing.T) {
	plain := BuildProfilePrompt("")
	assert.Equal(t, profilePromptTemplate, plain)

	personalized := BuildProfilePrompt("abc123")
	assert.True(t, strings.HasPrefix(personalized, "abc123, "))
	assert.Contains(t, personalized, profilePromptTemplate)
}
