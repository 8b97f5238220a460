package payment

import (
	"fmt"
	"html/template"
	"io"
)

const formHTML = `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>Redirecting to eSewa</title>
</head>
<body onload="document.forms[0].submit()">
  <p>Redirecting to eSewa&hellip;</p>
  <form method="POST" action="{{ .ActionURL }}">
    {{- range .Fields }}
    <input type="hidden" name="{{ .Name }}" value="{{ .Value }}">
    {{- end }}
    <noscript><button type="submit">Continue to eSewa</button></noscript>
  </form>
</body>
</html>
`

const outcomeHTML = `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  {{- if .Refresh }}
  <meta http-equiv="refresh" content="{{ .Refresh }}">
  {{- end }}
  <title>{{ .Title }}</title>
</head>
<body>
  <main class="{{ .State }}">
    <h1>{{ .Title }}</h1>
    <p>{{ .Message }}</p>
    {{- if .RedirectURL }}
    <p><a href="{{ .RedirectURL }}">Return to the app</a></p>
    <script>setTimeout(function () { window.location.href = {{ .RedirectURL }}; }, {{ .DelayMillis }});</script>
    {{- else if eq .State "failed" }}
    <p><a href="/wallet">Back to wallet</a></p>
    {{- end }}
  </main>
</body>
</html>
`

var (
	formTemplate    = template.Must(template.New("esewa-form").Parse(formHTML))
	outcomeTemplate = template.Must(template.New("esewa-outcome").Parse(outcomeHTML))
)

type formField struct {
	Name  string
	Value string
}

// RenderForm writes a page that posts the signed fields to the gateway as
// soon as it loads.
func RenderForm(w io.Writer, descriptor *Descriptor) error {
	if descriptor == nil {
		return ErrInvalidDescriptor
	}
	fields := make([]formField, 0, len(descriptor.Params))
	for _, name := range descriptor.Params.Keys() {
		fields = append(fields, formField{Name: name, Value: descriptor.Params[name]})
	}

	data := struct {
		ActionURL string
		Fields    []formField
	}{
		ActionURL: descriptor.ActionURL,
		Fields:    fields,
	}
	if err := formTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("render esewa form: %w", err)
	}
	return nil
}

// RenderOutcome writes the terminal result page. RedirectURL is trusted as-is
// because the relay only sets it for allowed deep-link prefixes.
func RenderOutcome(w io.Writer, outcome Outcome) error {
	data := struct {
		State       State
		Title       string
		Message     string
		RedirectURL template.URL
		Refresh     string
		DelayMillis int64
	}{
		State:       outcome.State,
		Title:       "Payment failed",
		Message:     outcome.Message,
		RedirectURL: template.URL(outcome.RedirectURL),
		DelayMillis: outcome.RedirectDelay.Milliseconds(),
	}
	if outcome.State == StateVerified {
		data.Title = "Payment successful"
	}
	if outcome.RedirectURL != "" {
		data.Refresh = fmt.Sprintf("%d;url=%s", int(outcome.RedirectDelay.Seconds()), outcome.RedirectURL)
	}
	if err := outcomeTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("render esewa outcome: %w", err)
	}
	return nil
}
