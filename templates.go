package ajx

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"sort"
	"strings"

	"github.com/a-h/templ"
)

// Logical template names the code generator renders through.
const (
	TemplateIncludes = "includes" // script tags for a sequence of URLs; vars: urls []string
	TemplateInclude  = "include"  // script tag for one URL; vars: url string
	TemplateInline   = "inline"   // page-embeddable script block; vars: script string
	TemplateReady    = "ready"    // run-after-load wrapper; vars: script string
	TemplateStyle    = "style"    // page-embeddable style block; vars: css string
	TemplateConfig   = "config"   // client bootstrap configuration; vars: options map[string]any
	TemplateConfirm  = "confirm"  // confirmation dialog binding; vars: question, script string
)

// TemplateRenderer renders a named snippet with a variable mapping. The
// generator treats it as a pure external service; Templates is the built-in
// implementation.
type TemplateRenderer interface {
	Render(name string, vars map[string]any) (string, error)
}

// Templates is the default TemplateRenderer. Each snippet is a templ
// component rendered to a string, so the output composes with templ-based
// pages without further escaping.
type Templates struct{}

// NewTemplates creates the default template set.
func NewTemplates() *Templates {
	return &Templates{}
}

// Render renders the named snippet. Unknown names yield ErrUnknownTemplate.
func (t *Templates) Render(name string, vars map[string]any) (string, error) {
	var comp templ.Component
	switch name {
	case TemplateIncludes:
		urls, _ := vars["urls"].([]string)
		comp = includesComponent(urls)
	case TemplateInclude:
		url, _ := vars["url"].(string)
		comp = includesComponent([]string{url})
	case TemplateInline:
		script, _ := vars["script"].(string)
		comp = inlineComponent(script)
	case TemplateReady:
		script, _ := vars["script"].(string)
		comp = readyComponent(script)
	case TemplateStyle:
		css, _ := vars["css"].(string)
		comp = styleComponent(css)
	case TemplateConfig:
		options, _ := vars["options"].(map[string]any)
		comp = configComponent(options)
	case TemplateConfirm:
		question, _ := vars["question"].(string)
		script, _ := vars["script"].(string)
		comp = confirmComponent(question, script)
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownTemplate, name)
	}

	var b strings.Builder
	if err := comp.Render(context.Background(), &b); err != nil {
		return "", err
	}
	return b.String(), nil
}

// includesComponent emits one script tag per URL.
func includesComponent(urls []string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		for _, url := range urls {
			if _, err := fmt.Fprintf(w, "<script type=\"text/javascript\" src=\"%s\" charset=\"UTF-8\"></script>\n", html.EscapeString(url)); err != nil {
				return err
			}
		}
		return nil
	})
}

// inlineComponent wraps a script string in a page-embeddable block.
func inlineComponent(script string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, "<script type=\"text/javascript\" charset=\"UTF-8\">\n/* <![CDATA[ */\n"); err != nil {
			return err
		}
		if _, err := io.WriteString(w, script); err != nil {
			return err
		}
		_, err := io.WriteString(w, "/* ]]> */\n</script>\n")
		return err
	})
}

// readyComponent wraps a script string to run after the page has loaded.
func readyComponent(script string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, "ajx.dom.ready(function() {\n"); err != nil {
			return err
		}
		if _, err := io.WriteString(w, script); err != nil {
			return err
		}
		_, err := io.WriteString(w, "});\n")
		return err
	})
}

// styleComponent wraps accumulated CSS in a style block.
func styleComponent(css string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, "<style type=\"text/css\">\n"); err != nil {
			return err
		}
		if _, err := io.WriteString(w, css); err != nil {
			return err
		}
		_, err := io.WriteString(w, "</style>\n")
		return err
	})
}

// configComponent renders bootstrap configuration assignments, one per
// option, in sorted key order for deterministic output.
func configComponent(options map[string]any) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		keys := make([]string, 0, len(options))
		for k := range options {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			val, err := json.Marshal(options[k])
			if err != nil {
				return err
			}
			if _, err := fmt.Fprintf(w, "ajx.config.%s = %s;\n", k, val); err != nil {
				return err
			}
		}
		return nil
	})
}

// confirmComponent binds a script to a client-side confirmation dialog.
func confirmComponent(question, script string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		q, err := json.Marshal(question)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(w, "if (confirm(%s)) { %s }", q, script)
		return err
	})
}

// defaultAlert is the built-in AlertProvider: a plain alert() call.
type defaultAlert struct{}

func (defaultAlert) Name() string { return "alert" }

func (defaultAlert) Alert(message string) string {
	msg, _ := json.Marshal(message)
	return fmt.Sprintf("alert(%s);", msg)
}

// defaultConfirm is the built-in ConfirmProvider: a plain confirm() call,
// rendered through the confirm template.
type defaultConfirm struct{}

func (defaultConfirm) Name() string { return "confirm" }

func (defaultConfirm) Confirm(question, script string) string {
	out, err := NewTemplates().Render(TemplateConfirm, map[string]any{
		"question": question,
		"script":   script,
	})
	if err != nil {
		return script
	}
	return out
}
