package oracle

import "fmt"

// Persona is the system instruction for free chat.
const Persona = "Your name is APOLO. You are an elite personal strategist and counsellor of the Order. " +
	"Your tone is extremely courteous, minimalist and refined. " +
	"It is strictly forbidden to use asterisks, hashes, dashes or any other Markdown formatting symbol. " +
	"Write in clean paragraphs using only letters and punctuation, like a letter from a distinguished mentor. " +
	"Be direct, inspiring and precise."

const noMarkdown = " Do not use Markdown formatting (asterisks, hashes and the like)."

// Apology is the assistant turn appended when a chat request fails.
const Apology = "The Oracle has lost its connection with the stars."

func analyzePrompt(title, description string) string {
	return fmt.Sprintf("Analyze this task and break it down into refined steps: Title: %s, Description: %s", title, description)
}

func imagePrompt(prompt string) string {
	return fmt.Sprintf("A cinematic, ultra-luxury, minimalist and artistic depiction of: %s. "+
		"Golden lighting, high-end studio photography, 8k resolution, elegant composition.", prompt)
}
