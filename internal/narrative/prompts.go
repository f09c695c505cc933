package narrative

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jengzang/crowdscan-backend-go/internal/models"
)

const assistantIntro = "You are a real-time crowd safety assistant."

const riskDefinitions = `Risk Level Definitions:
- Safe (<6): Normal crowd density, no action needed
- Moderate Risk (6-7.9): Elevated density, monitor closely
- High Risk (8-8.9): High density, consider crowd control measures
- Critical Risk (≥9): Very high density, immediate attention required
- Stampede Risk (≥9 + increasing trend): Immediate danger, evacuate immediately`

// GateLine renders one gate as " - Gate G1: Density 8.0, Trend 1.20, Status: High Risk"
func GateLine(g models.GateRisk) string {
	return fmt.Sprintf(" - Gate %s: Density %.1f, Trend %.2f, Status: %s\n", g.GateID, g.Latest, g.Trend, g.Tag)
}

// GateLines renders every gate of a location
func GateLines(gates []models.GateRisk) string {
	var b strings.Builder
	for _, g := range gates {
		b.WriteString(GateLine(g))
	}
	return b.String()
}

// FleetContext renders every location block followed by a blank line
func FleetContext(locations []models.LocationRisk) string {
	var b strings.Builder
	for _, loc := range locations {
		fmt.Fprintf(&b, " Location: %s\n", loc.LocationID)
		b.WriteString(GateLines(loc.Gates))
		b.WriteString("\n")
	}
	return b.String()
}

// FleetPrompt asks for a fleet-wide summary. The mode only changes the tone line.
func FleetPrompt(zoneText string, mode models.NarrativeMode) string {
	tone := "(tone: public)"
	if mode == models.ModeOfficer {
		tone = "(tone: for police)"
	}

	return strings.TrimSpace(fmt.Sprintf(`
%s

Here is current gate-level data grouped by location:
%s

%s

Generate a short summary %s:

Highlight risky/stampede zones with specific risk levels
Suggest safe gates for evacuation
Provide specific actions for each risk level
give it in bullet points in neat manner
Use 4-5 lines max
`, assistantIntro, zoneText, riskDefinitions, tone))
}

// LocationContext renders a single location headed by its name
func LocationContext(locationName string, gates []models.GateRisk) string {
	return "Location: " + locationName + "\n" + GateLines(gates)
}

// LocationPrompt asks for a single-location summary
func LocationPrompt(locationName, zoneText string, mode models.NarrativeMode) string {
	prompt := fmt.Sprintf("%s\nHere is current gate-level data for %s:\n%s\nGenerate a short summary for this location. Highlight risky/stampede gates and suggest safe gates for evacuation. Use 3-4 lines max.",
		assistantIntro, locationName, zoneText)
	if mode == models.ModeOfficer {
		prompt += " (tone: for police)"
	}
	return prompt
}

// GatePrompt asks whether the user's gate is safe
func GatePrompt(locationName, gatesText, gateID string) string {
	return fmt.Sprintf("%s\nHere is current gate-level data for %s:\n%s\nA user is currently at Gate %s.\nIs this gate safe? If not, suggest the safest gate for evacuation. Use 2-3 lines max.",
		assistantIntro, locationName, gatesText, gateID)
}

// ForecastPrompt asks for a short forecast narrative
func ForecastPrompt(locationName string, s models.TrendSample, forecast float64, tag models.RiskTag) string {
	return fmt.Sprintf("%s\nHere is the recent density data for Gate %s at %s:\nLatest: %s, Previous: %s, Trend: %.2f\nForecasted density for next 10 minutes: %.1f (Status: %s)\nGenerate a short forecast summary for the user. Use 2-3 lines max.",
		assistantIntro, s.GateID, locationName, number(s.Latest), number(s.Previous), s.Trend, forecast, tag)
}

// DescribeForecast is the deterministic forecast sentence returned with every predictive advisory
func DescribeForecast(locationName string, s models.TrendSample, forecast float64, tag models.RiskTag) string {
	direction := "steady"
	switch {
	case s.Trend > 0:
		direction = "rising"
	case s.Trend < 0:
		direction = "falling"
	}
	return fmt.Sprintf("Gate %s at %s is %s (latest %.1f, trend %+.2f). Forecasted density for the next interval: %.1f (%s).",
		s.GateID, locationName, direction, s.Latest, s.Trend, forecast, tag)
}

// QueryContext renders the latest density of every gate in the fleet
func QueryContext(samples []models.TrendSample) string {
	var b strings.Builder
	for _, s := range samples {
		fmt.Fprintf(&b, "Location: %s, Gate: %s, Latest Density: %s\n", s.LocationID, s.GateID, number(s.Latest))
	}
	return b.String()
}

// QueryPrompt forwards a free-form question together with the fleet digest
func QueryPrompt(digest, query string) string {
	return fmt.Sprintf("%s\nHere is the latest crowd data:\n%s\nUser question: %s\nAnswer in 2-4 lines.", assistantIntro, digest, query)
}

func number(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
