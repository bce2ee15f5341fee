package a2a

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// AgentInterface advertises one additional transport an agent can be
// reached over, beyond PreferredTransport.
type AgentInterface struct {
	Transport Transport `json:"transport"`
	URL       string    `json:"url"`
}

type SecurityScheme struct {
	Type   string   `json:"type"`
	Scopes []string `json:"scopes,omitempty"`
}

type AgentProvider struct {
	Organization string `json:"organization"`
	URL          string `json:"url,omitempty"`
}

type AgentCapabilities struct {
	Streaming              bool `json:"streaming,omitempty"`
	PushNotifications      bool `json:"pushNotifications,omitempty"`
	StateTransitionHistory bool `json:"stateTransitionHistory,omitempty"`
}

type AgentSkill struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Examples    []string `json:"examples,omitempty"`
	InputModes  []string `json:"inputModes,omitempty"`
	OutputModes []string `json:"outputModes,omitempty"`
}

// AgentCard is the static self-description of an agent's capabilities. Its
// no core behavior depends on its fields —
// this package only declares the shape and round-trips it.
type AgentCard struct {
	ProtocolVersion      string                    `json:"protocolVersion"`
	Name                 string                    `json:"name"`
	Description          string                    `json:"description,omitempty"`
	URL                  string                    `json:"url"`
	PreferredTransport   Transport                 `json:"preferredTransport"`
	AdditionalInterfaces []AgentInterface          `json:"additionalInterfaces,omitempty"`
	Provider             *AgentProvider            `json:"provider,omitempty"`
	Version              string                    `json:"version"`
	DocumentationURL     string                    `json:"documentationUrl,omitempty"`
	Capabilities         AgentCapabilities         `json:"capabilities"`
	SecuritySchemes      map[string]SecurityScheme `json:"securitySchemes,omitempty"`
	DefaultInputModes    []string                  `json:"defaultInputModes,omitempty"`
	DefaultOutputModes   []string                  `json:"defaultOutputModes,omitempty"`
	Skills               []AgentSkill              `json:"skills"`
	Signatures           []string                  `json:"signatures,omitempty"`
}

// NewAgentCardFromConfig builds an AgentCard from viper keys rooted at
// "agent.<key>".
func NewAgentCardFromConfig(key string) *AgentCard {
	v := viper.GetViper()
	prefix := fmt.Sprintf("agent.%s.", key)

	skillNames := v.GetStringSlice(prefix + "skills")
	skills := make([]AgentSkill, len(skillNames))
	for i, name := range skillNames {
		skills[i] = skillFromConfig(name)
	}

	return &AgentCard{
		ProtocolVersion:    v.GetString(prefix + "protocolVersion"),
		Name:               v.GetString(prefix + "name"),
		Description:        v.GetString(prefix + "description"),
		URL:                v.GetString(prefix + "url"),
		PreferredTransport: Transport(v.GetString(prefix + "preferredTransport")),
		Provider: &AgentProvider{
			Organization: v.GetString(prefix + "provider.organization"),
			URL:          v.GetString(prefix + "provider.url"),
		},
		Version:          v.GetString(prefix + "version"),
		DocumentationURL: v.GetString(prefix + "documentationUrl"),
		Capabilities: AgentCapabilities{
			Streaming:              v.GetBool(prefix + "capabilities.streaming"),
			PushNotifications:      v.GetBool(prefix + "capabilities.pushNotifications"),
			StateTransitionHistory: v.GetBool(prefix + "capabilities.stateTransitionHistory"),
		},
		Skills: skills,
	}
}

func skillFromConfig(name string) AgentSkill {
	v := viper.GetViper()
	prefix := fmt.Sprintf("skills.%s.", name)

	return AgentSkill{
		ID:          v.GetString(prefix + "id"),
		Name:        v.GetString(prefix + "name"),
		Description: v.GetString(prefix + "description"),
		Tags:        v.GetStringSlice(prefix + "tags"),
		Examples:    v.GetStringSlice(prefix + "examples"),
		InputModes:  v.GetStringSlice(prefix + "input_modes"),
		OutputModes: v.GetStringSlice(prefix + "output_modes"),
	}
}

func (card *AgentCard) String() string {
	var sb strings.Builder

	bullet := "│ "
	indent := "   "

	sb.WriteString(headerStyle.Render("Agent Card") + "\n")
	sb.WriteString(bullet + labelStyle.Render("Name: ") + valueStyle.Render(card.Name) + "\n")
	if card.Description != "" {
		sb.WriteString(bullet + labelStyle.Render("Description: ") + valueStyle.Render(card.Description) + "\n")
	}
	sb.WriteString(bullet + labelStyle.Render("URL: ") + valueStyle.Render(card.URL) + "\n")
	sb.WriteString(bullet + labelStyle.Render("Preferred Transport: ") + valueStyle.Render(string(card.PreferredTransport)) + "\n")
	sb.WriteString(bullet + labelStyle.Render("Version: ") + valueStyle.Render(card.Version) + "\n")

	if card.Provider != nil {
		sb.WriteString("\n" + sectionStyle.Render("Provider") + "\n")
		sb.WriteString(bullet + labelStyle.Render("Organization: ") + valueStyle.Render(card.Provider.Organization) + "\n")
	}

	sb.WriteString("\n" + sectionStyle.Render("Capabilities") + "\n")
	sb.WriteString(bullet + labelStyle.Render("Streaming: ") + valueStyle.Render(fmt.Sprintf("%v", card.Capabilities.Streaming)) + "\n")
	sb.WriteString(bullet + labelStyle.Render("Push Notifications: ") + valueStyle.Render(fmt.Sprintf("%v", card.Capabilities.PushNotifications)) + "\n")

	if len(card.Skills) > 0 {
		sb.WriteString("\n" + sectionStyle.Render("Skills") + "\n")
		for i, skill := range card.Skills {
			sb.WriteString(bullet + labelStyle.Render(fmt.Sprintf("Skill %d", i+1)) + "\n")
			sb.WriteString(bullet + indent + labelStyle.Render("ID: ") + valueStyle.Render(skill.ID) + "\n")
			sb.WriteString(bullet + indent + labelStyle.Render("Name: ") + valueStyle.Render(skill.Name) + "\n")
		}
	}

	return sb.String()
}
