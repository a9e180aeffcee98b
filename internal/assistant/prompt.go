// Package assistant holds the APIS Assistant persona: the school knowledge
// base, the system instruction, and the widget's canned UI content.
package assistant

import (
	"encoding/json"
	"fmt"

	"github.com/nirmanlabs/apis-assistant/pkg/types"
)

// SchoolData is the structured knowledge base embedded in the system
// instruction for school-specific questions.
type SchoolData struct {
	Name        string    `json:"name"`
	Board       string    `json:"board"`
	Location    string    `json:"location"`
	FullAddress string    `json:"fullAddress"`
	Classes     string    `json:"classes"`
	Streams     []string  `json:"streams"`
	Facilities  []string  `json:"facilities"`
	FocusAreas  []string  `json:"focusAreas"`
	Leadership  struct {
		Mentor string `json:"mentor"`
	} `json:"leadership"`
	LatestUpdates []Update `json:"latestUpdates"`
	Contact       Contact  `json:"contact"`
}

type Update struct {
	Title       string `json:"title"`
	Date        string `json:"date"`
	Description string `json:"description"`
}

type Contact struct {
	Phones  []string `json:"phones"`
	Emails  []Email  `json:"emails"`
	Website string   `json:"website"`
}

type Email struct {
	Address string `json:"address"`
	Label   string `json:"label"`
}

// School is the APIS knowledge base.
var School = SchoolData{
	Name:        "Angels Palace International School (APIS)",
	Board:       "CBSE",
	Location:    "Sohna, Gurugram",
	FullAddress: "Angels Palace International School, Ballabhgarh more, Vill- Lakhuwas-Sancholi, Palwal Road, Sohna. 122103 Haryana",
	Classes:     "Pre-Nursery to Class 12",
	Streams:     []string{"PCM", "PCB", "Commerce", "Arts"},
	Facilities: []string{
		"Air-conditioned campus",
		"Computer Lab 'CYBER KINGDOM' (20+ laptops, advanced hardware/software)",
		"Science Labs (Physics, Chemistry, Biology - Experiment-based learning)",
		"Medical Room (Primary health care for students and emergencies)",
		"Library (Collaborative, modern, and social learning environment)",
		"Smart Classrooms (Technology-enabled for digital natives)",
		"Playground (Safe outdoor environment with equipment for creative energy)",
		"Dance & activity rooms",
		"RO water",
		"Hostel",
		"Transport facility covering Sohna and nearby areas",
	},
	FocusAreas: []string{
		"Holistic development (academic, creative, social, spiritual)",
		"Curriculum based on real reasons for learning",
		"Preparation for life in the 21st century",
		"Individual attention with optimal student-teacher ratio",
	},
	Leadership: struct {
		Mentor string `json:"mentor"`
	}{Mentor: "Manish Rao"},
	LatestUpdates: []Update{
		{
			Title:       "Online Admission 2026-27",
			Date:        "08 Jan, 2025",
			Description: "Admissions process open for applicants & families for the 2026-27 session.",
		},
	},
	Contact: Contact{
		Phones: []string{
			"0124-2971601 (Reception)",
			"+91 80536 41944 (Reception)",
			"+91 89304 41944 (Principal Office)",
			"+91 89301 41944 (Accounts)",
			"+91 89308 41944 (Transport)",
		},
		Emails: []Email{
			{Address: "infoofapis@gmail.com", Label: "General Inquiry / International School"},
			{Address: "infoofapps@gmail.com", Label: "Play School"},
			{Address: "examinations.apis@gmail.com", Label: "Examinations Department"},
			{Address: "recruitment.angelspalace@gmail.com", Label: "Careers & Recruitment"},
		},
		Website: "https://angelspalaceschool.com/",
	},
}

// WelcomeMessage is the first message every new conversation shows.
const WelcomeMessage = "👋 Hello! I'm the APIS Virtual Assistant.\n\nI can help you with information about Angels Palace International School - admissions, fees, facilities, and more.\n\nHow can I assist you today?"

// QuickReplies are the suggestion chips under the welcome message. The widget
// sends "Tell me about <text>" when tapped.
var QuickReplies = []types.QuickReply{
	{Text: "Admissions", Icon: "📋"},
	{Text: "Facilities", Icon: "🏫"},
	{Text: "Contact Info", Icon: "📞"},
	{Text: "Fee Structure", Icon: "💰"},
}

const instructionTemplate = `
You are APIS Assistant, a helpful, intelligent AI assistant. You can answer questions on ANY topic - science, technology, history, math, coding, general knowledge, and more.

You also have special knowledge about Angels Palace International School (APIS) and can help with school-related queries when asked.

SCHOOL CONTEXT (use only when user asks about the school):
%s

IDENTITY RULES:
1. You are APIS Assistant, finetuned on Angel Palace International school shona by Nirman Labs.
2. If asked "Who are you?" or "Who developed you?", YOU MUST ANSWER: "I am APIS Assistant, developed by Nirman Labs."
3. STRICTLY FORBIDDEN: Do NOT mention Google, Gemini, or any other AI provider.
4. Ensure all responses align with this identity.

CORE RULES:
1. Answer ANY question the user asks - you are a general-purpose AI assistant.
2. Be helpful, accurate, and informative on all topics.
3. For school-specific questions, use the provided APIS context.
4. If you don't know something, say so honestly.
5. Keep responses concise but comprehensive.

FORMATTING RULES:
- DO NOT use markdown formatting like **, ##, ###, *, or similar symbols.
- Use plain, clean text that is easy to read.
- Use emojis sparingly to add warmth.
- Structure responses with clear sections using emojis as visual separators.
- Use line breaks to separate different sections for readability.
- Keep responses conversational and easy to scan.

TONE:
Friendly, knowledgeable, and helpful - like a smart friend who can help with anything.
`

// SystemInstruction renders the chat persona with the school context
// embedded as pretty-printed JSON.
func SystemInstruction() string {
	data, err := json.MarshalIndent(School, "", "  ")
	if err != nil {
		data = []byte("{}")
	}
	return fmt.Sprintf(instructionTemplate, data)
}

// LiveInstruction is the voice-session variant of the persona.
func LiveInstruction() string {
	return SystemInstruction() + " Keep your spoken responses concise, conversational, and friendly suitable for voice interaction."
}

// WidgetMeta assembles the static widget bootstrap payload.
func WidgetMeta() types.WidgetMeta {
	return types.WidgetMeta{
		Welcome:      WelcomeMessage,
		QuickReplies: QuickReplies,
		SchoolName:   School.Name,
		Phones:       School.Contact.Phones,
		Website:      School.Contact.Website,
	}
}
