package assistant

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSystemInstructionEmbedsSchoolContext(t *testing.T) {
	got := SystemInstruction()

	assert.Contains(t, got, "Angels Palace International School (APIS)")
	assert.Contains(t, got, "CYBER KINGDOM")
	assert.Contains(t, got, "0124-2971601 (Reception)")
	assert.Contains(t, got, "I am APIS Assistant, developed by Nirman Labs.")
	assert.Contains(t, got, "Do NOT mention Google, Gemini")
}

func TestLiveInstructionAppendsVoiceGuidance(t *testing.T) {
	got := LiveInstruction()

	assert.Contains(t, got, SystemInstruction())
	assert.Contains(t, got, "Keep your spoken responses concise, conversational, and friendly")
}

func TestWidgetMeta(t *testing.T) {
	meta := WidgetMeta()

	assert.Equal(t, WelcomeMessage, meta.Welcome)
	assert.Len(t, meta.QuickReplies, 4)
	assert.Equal(t, "Admissions", meta.QuickReplies[0].Text)
	assert.Equal(t, School.Name, meta.SchoolName)
	assert.NotEmpty(t, meta.Phones)
	assert.Equal(t, "https://angelspalaceschool.com/", meta.Website)
}
