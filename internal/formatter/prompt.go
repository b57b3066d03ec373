package formatter

// Prompt renders the configured prompt. The configured value is either a
// preset name or a template.
type Prompt struct {
	template string
	engine   TemplateEngine
	static   bool
}

// NewPrompt resolves value against the default presets. Invalid templates
// are returned as an error so callers can fall back to a literal prompt.
func NewPrompt(value string) (*Prompt, error) {
	template := value
	if preset, err := NewPresetRegistry().Get(value); err == nil {
		template = preset.Template
	}
	engine := NewTemplateEngine()
	vars, err := engine.Parse(template)
	if err != nil {
		return nil, err
	}
	p := &Prompt{template: template, engine: engine, static: len(vars) == 0}
	if _, err := p.Render(VariableContext{}); err != nil {
		return nil, err
	}
	return p, nil
}

// Template returns the template the prompt renders.
func (p *Prompt) Template() string { return p.template }

// Static reports whether the prompt has no variables.
func (p *Prompt) Static() bool { return p.static }

// Render expands the prompt for ctx.
func (p *Prompt) Render(ctx VariableContext) (string, error) {
	if p.static {
		return p.template, nil
	}
	return p.engine.Substitute(p.template, ctx)
}
