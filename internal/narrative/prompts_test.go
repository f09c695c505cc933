package narrative

import (
	"strings"
	"testing"

	"github.com/jengzang/crowdscan-backend-go/internal/models"
)

func TestGateLine(t *testing.T) {
	got := GateLine(models.GateRisk{GateID: "G1", Latest: 8, Trend: 1.2, Tag: models.TagHigh})
	want := " - Gate G1: Density 8.0, Trend 1.20, Status: High Risk\n"
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestFleetContext(t *testing.T) {
	locations := []models.LocationRisk{
		{LocationID: "stadium1", Gates: []models.GateRisk{
			{GateID: "G1", Latest: 9.5, Trend: 2, Tag: models.TagStampede},
		}},
		{LocationID: "mall1", Gates: []models.GateRisk{
			{GateID: "G4", Latest: 2.25, Trend: -0.5, Tag: models.TagSafe},
		}},
	}

	want := " Location: stadium1\n - Gate G1: Density 9.5, Trend 2.00, Status: Stampede Risk\n\n" +
		" Location: mall1\n - Gate G4: Density 2.2, Trend -0.50, Status: Safe\n\n"
	if got := FleetContext(locations); got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestFleetPromptTone(t *testing.T) {
	testCases := []struct {
		mode models.NarrativeMode
		tone string
	}{
		{models.ModeOfficer, "(tone: for police)"},
		{models.ModePublic, "(tone: public)"},
	}

	for _, tc := range testCases {
		t.Run(string(tc.mode), func(t *testing.T) {
			prompt := FleetPrompt(" Location: x\n", tc.mode)
			if !strings.Contains(prompt, "Generate a short summary "+tc.tone+":") {
				t.Errorf("Expected tone %q in prompt:\n%s", tc.tone, prompt)
			}
			if !strings.Contains(prompt, "Risk Level Definitions:") || !strings.HasSuffix(prompt, "Use 4-5 lines max") {
				t.Errorf("Prompt is missing fixed sections:\n%s", prompt)
			}
		})
	}
}

func TestFleetPromptModeDoesNotChangeData(t *testing.T) {
	zone := " Location: stadium1\n - Gate G1: Density 9.5, Trend 2.00, Status: Stampede Risk\n\n"
	officer := strings.Replace(FleetPrompt(zone, models.ModeOfficer), "(tone: for police)", "", 1)
	public := strings.Replace(FleetPrompt(zone, models.ModePublic), "(tone: public)", "", 1)
	if officer != public {
		t.Error("Expected prompts to differ only in the tone line")
	}
}

func TestGateAndLocationPrompts(t *testing.T) {
	gates := []models.GateRisk{{GateID: "G2", Latest: 3, Tag: models.TagSafe}}

	loc := LocationPrompt("Orion Mall", LocationContext("Orion Mall", gates), models.ModePublic)
	if !strings.Contains(loc, "Location: Orion Mall\n - Gate G2") || !strings.HasSuffix(loc, "Use 3-4 lines max.") {
		t.Errorf("Unexpected location prompt:\n%s", loc)
	}

	gate := GatePrompt("Orion Mall", GateLines(gates), "G2")
	if !strings.Contains(gate, "A user is currently at Gate G2.") || !strings.HasSuffix(gate, "Use 2-3 lines max.") {
		t.Errorf("Unexpected gate prompt:\n%s", gate)
	}
}

func TestForecastTexts(t *testing.T) {
	s := models.TrendSample{GateID: "G1", Latest: 8, Previous: 6.8, Trend: 1.2}

	prompt := ForecastPrompt("MG Road Metro Station", s, 9.2, models.TagCritical)
	if !strings.Contains(prompt, "Latest: 8, Previous: 6.8, Trend: 1.20") ||
		!strings.Contains(prompt, "Forecasted density for next 10 minutes: 9.2 (Status: Critical Risk)") {
		t.Errorf("Unexpected forecast prompt:\n%s", prompt)
	}

	summary := DescribeForecast("MG Road Metro Station", s, 9.2, models.TagCritical)
	if !strings.Contains(summary, "rising") || !strings.Contains(summary, "9.2 (Critical Risk)") {
		t.Errorf("Unexpected forecast summary: %s", summary)
	}
}

func TestQueryPrompt(t *testing.T) {
	digest := QueryContext([]models.TrendSample{{LocationID: "metro1", GateID: "G3", Latest: 7.25}})
	if digest != "Location: metro1, Gate: G3, Latest Density: 7.25\n" {
		t.Errorf("Unexpected digest %q", digest)
	}

	prompt := QueryPrompt(digest, "Which gate is quietest?")
	if !strings.Contains(prompt, "User question: Which gate is quietest?\nAnswer in 2-4 lines.") {
		t.Errorf("Unexpected query prompt:\n%s", prompt)
	}
}
