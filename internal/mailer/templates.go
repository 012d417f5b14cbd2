package mailer

import (
	"strings"

	"github.com/osteele/liquid"

	"github.com/ignite/waitlist-api/internal/pkg/logger"
)

// Subjects for the two transactional emails.
const (
	confirmationSubject = "Confirm your waitlist signup"
	welcomeSubject      = "You're on the waitlist! \U0001F389"
)

// templateSet holds the four Liquid sources for one visual style.
type templateSet struct {
	confirmationHTML string
	confirmationText string
	welcomeHTML      string
	welcomeText      string
}

// templateStyles maps style name to sources. "default" is accepted as
// an alias for minimal.
var templateStyles = map[string]templateSet{
	"minimal":      minimalTemplates,
	"professional": professionalTemplates,
	"branded":      brandedTemplates,
}

// resolveStyle normalizes the configured style, falling back to
// minimal for unknown values.
func resolveStyle(style string) string {
	style = strings.ToLower(strings.TrimSpace(style))
	if style == "" || style == "default" {
		return "minimal"
	}
	if _, ok := templateStyles[style]; !ok {
		logger.Warn("Unknown email template style, falling back to minimal", "style", style)
		return "minimal"
	}
	return style
}

// compiledSet holds parsed templates ready to render.
type compiledSet struct {
	confirmationHTML *liquid.Template
	confirmationText *liquid.Template
	welcomeHTML      *liquid.Template
	welcomeText      *liquid.Template
}

func compileStyle(engine *liquid.Engine, style string) (*compiledSet, error) {
	src := templateStyles[resolveStyle(style)]

	var (
		out compiledSet
		err error
	)
	if out.confirmationHTML, err = engine.ParseString(src.confirmationHTML); err != nil {
		return nil, err
	}
	if out.confirmationText, err = engine.ParseString(src.confirmationText); err != nil {
		return nil, err
	}
	if out.welcomeHTML, err = engine.ParseString(src.welcomeHTML); err != nil {
		return nil, err
	}
	if out.welcomeText, err = engine.ParseString(src.welcomeText); err != nil {
		return nil, err
	}
	return &out, nil
}

// render executes a parsed template, falling back to a bare fallback
// string when rendering fails. Email content problems must never block
// the signup or confirmation flows.
func render(tpl *liquid.Template, bindings map[string]any, fallback string) string {
	out, err := tpl.Render(bindings)
	if err != nil {
		logger.Warn("Email template render failed", "error", err.Error())
		return fallback
	}
	return string(out)
}

var minimalTemplates = templateSet{
	confirmationHTML: `<!DOCTYPE html>
<html>
<body style="font-family: system-ui, -apple-system, sans-serif; color: #333; max-width: 560px; margin: 0 auto; padding: 24px;">
  <h2 style="color: #111;">Confirm your email</h2>
  <p>Thanks for signing up! Please confirm your email address by clicking the button below:</p>
  <p style="margin: 32px 0;">
    <a href="{{ confirm_url }}" style="background: {{ primary_color }}; color: white; padding: 12px 24px; border-radius: 6px; text-decoration: none;">Confirm my email</a>
  </p>
  <p style="font-size: 14px; color: #666;">This link expires in 24 hours.</p>
  <p style="font-size: 14px; color: #666;">If you didn't sign up for our waitlist, you can safely ignore this email.</p>
</body>
</html>`,
	confirmationText: `Confirm your email

Thanks for signing up! Please confirm your email address by opening this link:

{{ confirm_url }}

This link expires in 24 hours.

If you didn't sign up for our waitlist, you can safely ignore this email.`,
	welcomeHTML: `<!DOCTYPE html>
<html>
<body style="font-family: system-ui, -apple-system, sans-serif; color: #333; max-width: 560px; margin: 0 auto; padding: 24px;">
  <h2 style="color: #111;">You're on the waitlist! &#127881;</h2>
  <p>Thanks for signing up, we're excited to have you.</p>
  <p>We're working hard to get everything ready, and you'll be among the first to know when we launch.</p>
  <p>In the meantime, feel free to reply to this email if you have any questions or feedback. We read every message.</p>
  <p>Cheers,<br>{{ project_name }}</p>
  <p style="font-size: 12px; color: #666; margin-top: 48px; padding-top: 24px; border-top: 1px solid #e5e7eb;">
    You received this email because you signed up for our waitlist. If this wasn't you, you can safely ignore this email.<br>
    <a href="{{ unsubscribe_url }}" style="color: {{ primary_color }};">Unsubscribe from these emails</a>
  </p>
</body>
</html>`,
	welcomeText: `You're on the waitlist!

Thanks for signing up, we're excited to have you.

We're working hard to get everything ready, and you'll be among the first to know when we launch.

In the meantime, feel free to reply to this email if you have any questions or feedback. We read every message.

Cheers,
{{ project_name }}

Unsubscribe: {{ unsubscribe_url }}`,
}

var professionalTemplates = templateSet{
	confirmationHTML: `<!DOCTYPE html>
<html>
<body style="font-family: system-ui, -apple-system, sans-serif; background: #f4f4f7; margin: 0; padding: 24px;">
  <div style="max-width: 560px; margin: 0 auto; background: white; border-radius: 8px; padding: 32px;">
    {% if logo_url != "" %}<div style="text-align: center; padding-bottom: 24px;"><img src="{{ logo_url }}" alt="{{ project_name }}" style="max-width: 250px;"></div>{% endif %}
    <h2 style="color: #111;">Confirm your email</h2>
    <p style="color: #333;">Thanks for signing up! Please confirm your email address by clicking the button below:</p>
    <p style="margin: 32px 0; text-align: center;">
      <a href="{{ confirm_url }}" style="background: {{ primary_color }}; color: white; padding: 14px 32px; border-radius: 6px; text-decoration: none;">Confirm my email</a>
    </p>
    <p style="font-size: 14px; color: #666;">This link expires in 24 hours.</p>
    <p style="font-size: 14px; color: #666;">If you didn't sign up for our waitlist, you can safely ignore this email.</p>
  </div>
</body>
</html>`,
	confirmationText: minimalTemplates.confirmationText,
	welcomeHTML: `<!DOCTYPE html>
<html>
<body style="font-family: system-ui, -apple-system, sans-serif; background: #f4f4f7; margin: 0; padding: 24px;">
  <div style="max-width: 560px; margin: 0 auto; background: white; border-radius: 8px; padding: 32px;">
    {% if logo_url != "" %}<div style="text-align: center; padding-bottom: 24px;"><img src="{{ logo_url }}" alt="{{ project_name }}" style="max-width: 250px;"></div>{% endif %}
    <h2 style="color: #111;">You're on the waitlist! &#127881;</h2>
    <p style="color: #333;">Thanks for signing up, we're excited to have you.</p>
    <p style="color: #333;">We're working hard to get everything ready, and you'll be among the first to know when we launch.</p>
    <p style="color: #333;">In the meantime, feel free to reply to this email if you have any questions or feedback. We read every message.</p>
    <p style="color: #333;">Cheers,<br>{{ project_name }}</p>
    <p style="font-size: 12px; color: #666; margin-top: 48px; padding-top: 24px; border-top: 1px solid #e5e7eb;">
      You received this email because you signed up for our waitlist. If this wasn't you, you can safely ignore this email.<br>
      <a href="{{ unsubscribe_url }}" style="color: {{ primary_color }};">Unsubscribe from these emails</a>
    </p>
  </div>
</body>
</html>`,
	welcomeText: minimalTemplates.welcomeText,
}

var brandedTemplates = templateSet{
	confirmationHTML: `<!DOCTYPE html>
<html>
<body style="font-family: system-ui, -apple-system, sans-serif; background: #f4f4f7; margin: 0; padding: 0;">
  <div style="max-width: 560px; margin: 0 auto; background: white;">
    <div style="background: {% if logo_url != "" %}transparent{% else %}{{ primary_color }}{% endif %}; padding: 32px; text-align: center;">
      {% if logo_url != "" %}<img src="{{ logo_url }}" alt="{{ project_name }}" style="max-width: 250px;">{% else %}<div style="color: white; font-size: 24px; font-weight: bold;">{{ project_name }}</div>{% endif %}
    </div>
    <div style="padding: 32px;">
      <h2 style="color: #111;">Confirm your email</h2>
      <p style="color: #333;">Thanks for signing up! Please confirm your email address by clicking the button below:</p>
      <p style="margin: 32px 0; text-align: center;">
        <a href="{{ confirm_url }}" style="background: {{ primary_color }}; color: white; padding: 14px 32px; border-radius: 6px; text-decoration: none;">Confirm my email</a>
      </p>
      <p style="font-size: 14px; color: #666;">This link expires in 24 hours.</p>
      <p style="font-size: 14px; color: #666;">If you didn't sign up for our waitlist, you can safely ignore this email.</p>
    </div>
  </div>
</body>
</html>`,
	confirmationText: minimalTemplates.confirmationText,
	welcomeHTML: `<!DOCTYPE html>
<html>
<body style="font-family: system-ui, -apple-system, sans-serif; background: #f4f4f7; margin: 0; padding: 0;">
  <div style="max-width: 560px; margin: 0 auto; background: white;">
    <div style="background: {% if logo_url != "" %}transparent{% else %}{{ primary_color }}{% endif %}; padding: 32px; text-align: center;">
      {% if logo_url != "" %}<img src="{{ logo_url }}" alt="{{ project_name }}" style="max-width: 250px;">{% else %}<div style="color: white; font-size: 24px; font-weight: bold;">{{ project_name }}</div>{% endif %}
    </div>
    <div style="padding: 32px;">
      <h2 style="color: #111;">You're on the waitlist! &#127881;</h2>
      <p style="color: #333;">Thanks for signing up, we're excited to have you.</p>
      <p style="color: #333;">We're working hard to get everything ready, and you'll be among the first to know when we launch.</p>
      <p style="color: #333;">In the meantime, feel free to reply to this email if you have any questions or feedback. We read every message.</p>
      <p style="color: #333;">Cheers,<br>{{ project_name }}</p>
      <p style="font-size: 12px; color: #666; margin-top: 48px; padding-top: 24px; border-top: 1px solid #e5e7eb;">
        You received this email because you signed up for our waitlist. If this wasn't you, you can safely ignore this email.<br>
        <a href="{{ unsubscribe_url }}" style="color: {{ primary_color }};">Unsubscribe from these emails</a>
      </p>
    </div>
  </div>
</body>
</html>`,
	welcomeText: minimalTemplates.welcomeText,
}
