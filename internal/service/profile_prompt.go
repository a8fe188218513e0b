package service

const profilePromptTemplate = "professional headshot portrait, soft diffused studio lighting, " +
	"clean neutral background, confident warm expression, sharp focus on the face, " +
	"shallow depth of field, high detail"

// BuildProfilePrompt assembles the profile-image generation prompt. Pure
// templating, no external call.
func BuildProfilePrompt(triggerWord string) string {
	if triggerWord == "" {
		return profilePromptTemplate
	}
	return triggerWord + ", " + profilePromptTemplate
}
