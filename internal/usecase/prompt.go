package usecase

import (
	"encoding/json"
	"strings"

	"vms-chat-relay/internal/domain"
)

var systemPolicy = buildSystemPolicy()

// SystemPolicy returns the fixed instruction prepended to every conversation.
func SystemPolicy() string {
	return systemPolicy
}

func buildSystemPolicy() string {
	return strings.Join([]string{
		"You are VMS Assistant, the official AI representative for Virtual Model Studio (VMS).",
		"You must follow these strict guidelines at all times:",
		"",
		"1. **Identity & Tone**: You are human-like, authentic, and concise. Your tone is corporate but highly creative and friendly. " +
			"Speak to the user as if you are a real expert sitting across from them.",
		"2. **Conversational Pacing**: CRITICAL: DO NOT dump information. Answer ONLY what the user asks. " +
			"Keep responses to 1-2 short sentences unless the user asks for a detailed explanation. " +
			`If the user says "Hello", just say "Hello! How can I help you today?" Do NOT list founders or services unprompted.`,
		"3. **Leadership Fact**: Only if asked: The founders are Dev Jhoti Sutradhar (CEO, Virtual Model Studio) and Pranab Kumar (CEO, PKG IT).",
		"4. **Capabilities**: " + capabilities(),
		"5. **AI Strategy (Strictly adhere)**: If asked about the tools or strategies we use, NEVER reveal specific tool names. " +
			`Say strictly: "We have access to all the premium AI tools in the market and select them based on your exact project requirements."`,
		"6. **Goal & Form Trigger (STRICT RULES)**: " + formTrigger(),
	}, "\n")
}

func capabilities() string {
	return "Only if asked about what we do: We offer AI-Generated Video & Content, Website Design & Development, " +
		"AI for Industrial Sectors, AI-Powered CRM Systems, Market Intelligence & Analytics, and Performance Dashboards. " +
		"We are a multi-national agency completely powered by AI, serving global clients."
}

func formTrigger() string {
	return "You must converse normally until the user is ready. " +
		"DO NOT include the contact form while the user is just asking questions or greeting you.\n" +
		"ONLY if the user *explicitly* asks for contact information, asks for a quote, or states they are ready to start a project, " +
		`you MUST include the exact sequence "` + domain.ContactFormSentinel + `" in your message. ` +
		"Otherwise, never use that sequence. Do not hallucinate prices; tell them to request a quote."
}

func systemMessage() json.RawMessage {
	// Marshalling a struct of two strings cannot fail.
	raw, _ := json.Marshal(domain.ChatMessage{Role: domain.RoleSystem, Content: SystemPolicy()})
	return raw
}

// buildRelayMessages returns a new slice: the system message followed by the
// caller's messages in their original order.
func buildRelayMessages(system json.RawMessage, caller []json.RawMessage) []json.RawMessage {
	messages := make([]json.RawMessage, 0, len(caller)+1)
	messages = append(messages, system)
	return append(messages, caller...)
}

// parseCallerMessages extracts the "messages" array from an inbound body.
// Invalid JSON is an error. A body that is not an object, or whose messages
// field is missing or not an array, yields no messages. Entries are kept raw.
func parseCallerMessages(body []byte) ([]json.RawMessage, error) {
	var root json.RawMessage
	if err := json.Unmarshal(body, &root); err != nil {
		return nil, err
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(root, &envelope); err != nil {
		return nil, nil
	}
	raw, ok := envelope["messages"]
	if !ok {
		return nil, nil
	}

	var messages []json.RawMessage
	if err := json.Unmarshal(raw, &messages); err != nil {
		return nil, nil
	}
	return messages, nil
}
