package synth

import (
	"encoding/json"
	"fmt"
	"strings"

	"cityinfo/internal/models"
)

const systemInstruction = `You write concise travel profiles of cities for visitors.

You receive data collected from Wikipedia, GeoNames, OpenStreetMap and a weather service.
Some sources may have failed; that is expected. Use what is available and fill every gap
with your general knowledge of the city. Never mention that a source failed and never
repeat error messages.

Answer with exactly these six headings, in this order, each on its own line and followed
by its content:

🏙️ **City Overview**
☀️ **Weather**
🎯 **Activities**
🍽️ **Good Food**
📸 **Attractions**
⚠️ **Things to Worry About**

Name specific places whenever the data provides them. Keep each section short and practical.`

// BuildPrompt embeds every collected result, as JSON, in the user prompt.
func BuildPrompt(state *models.PipelineState) string {
	q := state.Query
	var b strings.Builder
	fmt.Fprintf(&b, "Please synthesize the following information about %s into a comprehensive, well-structured city profile.\n\n", q.String())
	b.WriteString("AVAILABLE DATA SOURCES:\n\n")
	writeSource(&b, "WIKIPEDIA INFORMATION", state.Wikipedia)
	writeSource(&b, "GEONAMES INFORMATION", state.GeoNames)
	writeSource(&b, "OPENSTREETMAP INFORMATION", state.OSM)
	writeSource(&b, "WEATHER INFORMATION", state.Weather)
	b.WriteString("IMPORTANT INSTRUCTIONS:\n")
	b.WriteString("- Some data sources may have failed or returned errors - this is NORMAL\n")
	fmt.Fprintf(&b, "- Use the available data and supplement with your extensive knowledge about %s\n", q.City)
	b.WriteString("- You MUST provide a complete response with all 6 sections regardless of tool failures\n\n")
	b.WriteString("Use exactly these headings:\n\n")
	for _, kind := range models.SectionOrder {
		b.WriteString(kind.Heading())
		b.WriteString("\n")
	}
	return b.String()
}

func writeSource[T any](b *strings.Builder, label string, result *T) {
	b.WriteString(label)
	b.WriteString(":\n")
	if result == nil {
		b.WriteString("No data collected.\n\n")
		return
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		b.WriteString("No data collected.\n\n")
		return
	}
	b.Write(data)
	b.WriteString("\n\n")
}
