package alert

import (
	"context"

	"github.com/russross/blackfriday/v2"

	"github.com/Cepha0Z/Explosion-Threat-Zone-Simulator/internal/mail"
	"github.com/Cepha0Z/Explosion-Threat-Zone-Simulator/internal/model"
)

// Subject is the alert e-mail subject line.
func Subject(t model.Threat) string {
	return "⚠️ NEW THREAT DETECTED: " + orDefault(t.Name, "Unknown Threat")
}

// Compose builds the alert e-mail for one threat. The HTML part is the text body rendered as
// markdown, so the bullet list of safety steps arrives as a real list.
func Compose(ctx context.Context, gen TextGenerator, threat model.Threat, to, userLocation string) mail.Message {
	text := gen.AlertBody(ctx, threat, userLocation)
	return mail.Message{
		To:       to,
		Subject:  Subject(threat),
		TextBody: text,
		HTMLBody: RenderHTML(text),
	}
}

func RenderHTML(text string) string {
	out := blackfriday.Run([]byte(text),
		blackfriday.WithExtensions(blackfriday.CommonExtensions|blackfriday.HardLineBreak|blackfriday.NoEmptyLineBeforeBlock))
	return string(out)
}
