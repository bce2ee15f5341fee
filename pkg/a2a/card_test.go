package a2a

import (
	"encoding/json"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func sampleAgentCard() *AgentCard {
	return &AgentCard{
		ProtocolVersion:    "0.3.0",
		Name:               "joke-teller",
		Description:        "Tells a joke on request",
		URL:                "https://example.com/a2a",
		PreferredTransport: TransportJSONRPC,
		AdditionalInterfaces: []AgentInterface{
			{Transport: TransportJSONRPC, URL: "https://example.com/a2a"},
			{Transport: TransportGRPC, URL: "example.com:50051"},
			{Transport: TransportHTTPJSON, URL: "https://example.com/a2a/rest"},
		},
		Provider: &AgentProvider{
			Organization: "Example Corp",
			URL:          "https://example.com",
		},
		Version:          "1.0.0",
		DocumentationURL: "https://example.com/docs",
		Capabilities: AgentCapabilities{
			Streaming:              false,
			PushNotifications:      false,
			StateTransitionHistory: false,
		},
		SecuritySchemes: map[string]SecurityScheme{
			"google": {Type: "oauth2", Scopes: []string{"openid", "profile", "email"}},
		},
		DefaultInputModes:  []string{"text/plain"},
		DefaultOutputModes: []string{"text/plain"},
		Skills: []AgentSkill{
			{ID: "joke", Name: "Tell a joke", Description: "Tells a joke", Tags: []string{"fun"}},
			{ID: "greet", Name: "Greet", Description: "Greets the caller", Tags: []string{"social"}},
		},
		Signatures: []string{"sig-1"},
	}
}

func TestAgentCardJSONRoundTrip(t *testing.T) {
	Convey("Given the canonical sample AgentCard", t, func() {
		original := sampleAgentCard()

		Convey("When marshaled to JSON and back", func() {
			data, err := json.Marshal(original)
			So(err, ShouldBeNil)

			var decoded AgentCard
			So(json.Unmarshal(data, &decoded), ShouldBeNil)

			Convey("Then the decoded card equals the original", func() {
				So(decoded.ProtocolVersion, ShouldEqual, original.ProtocolVersion)
				So(decoded.PreferredTransport, ShouldEqual, TransportJSONRPC)
				So(decoded.AdditionalInterfaces, ShouldResemble, original.AdditionalInterfaces)
				So(len(decoded.AdditionalInterfaces), ShouldEqual, 3)
				So(len(decoded.Skills), ShouldEqual, 2)
				So(decoded.Skills, ShouldResemble, original.Skills)
				So(decoded.SecuritySchemes["google"].Scopes, ShouldResemble, []string{"openid", "profile", "email"})
				So(decoded.Signatures, ShouldResemble, original.Signatures)
			})
		})
	})
}
