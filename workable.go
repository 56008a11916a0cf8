// Package workable turns a Workable job's application form schema into
// HTML, validates applicant input, and posts candidate submissions. The
// root package re-exports the pipeline pieces so most callers only import
// this one.
package workable

import (
	"context"
	"fmt"

	"github.com/ianbrown80/workable-plugin/internal/messages"
	"github.com/ianbrown80/workable-plugin/pkg/api"
	"github.com/ianbrown80/workable-plugin/pkg/model"
	"github.com/ianbrown80/workable-plugin/pkg/render"
	"github.com/ianbrown80/workable-plugin/pkg/submission"
	"github.com/ianbrown80/workable-plugin/pkg/validation"
)

// Form aliases the canonical form model.
type Form = model.Form

// Field aliases the form model's field node.
type Field = model.Field

// Values aliases the collected applicant input.
type Values = validation.Values

// File aliases an applicant upload.
type File = submission.File

// Result aliases the user-visible submission outcome.
type Result = submission.Result

// RenderOptions aliases the per-render settings.
type RenderOptions = render.Options

// ClientConfig aliases the transport configuration.
type ClientConfig = api.Config

// Pipeline bundles the fetch, render, validate, and submit stages behind
// one constructor.
type Pipeline struct {
	client    *api.Client
	renderer  *render.Renderer
	submitter *submission.Submitter
	catalog   *messages.Catalog
}

// Option configures the pipeline.
type Option func(*pipelineConfig)

type pipelineConfig struct {
	language      string
	renderOptions []render.Option
}

// WithLanguage selects the message catalog language.
func WithLanguage(lang string) Option {
	return func(cfg *pipelineConfig) {
		cfg.language = lang
	}
}

// WithRenderOptions forwards options to the HTML renderer.
func WithRenderOptions(options ...render.Option) Option {
	return func(cfg *pipelineConfig) {
		cfg.renderOptions = append(cfg.renderOptions, options...)
	}
}

// New builds the full pipeline from transport configuration.
func New(clientCfg api.Config, options ...Option) (*Pipeline, error) {
	cfg := &pipelineConfig{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(cfg)
	}

	client, err := api.New(clientCfg)
	if err != nil {
		return nil, err
	}
	catalog, err := messages.NewCatalog(cfg.language)
	if err != nil {
		return nil, err
	}
	renderer, err := render.New(catalog, cfg.renderOptions...)
	if err != nil {
		return nil, err
	}

	return &Pipeline{
		client:    client,
		renderer:  renderer,
		submitter: submission.NewSubmitter(client, catalog),
		catalog:   catalog,
	}, nil
}

// Client exposes the underlying transport.
func (p *Pipeline) Client() *api.Client { return p.client }

// Catalog exposes the message catalog.
func (p *Pipeline) Catalog() *messages.Catalog { return p.catalog }

// Renderer exposes the HTML renderer.
func (p *Pipeline) Renderer() *render.Renderer { return p.renderer }

// FetchForm fetches a job's schema and builds the form model.
func (p *Pipeline) FetchForm(ctx context.Context, shortcode string) (Form, error) {
	app, err := p.client.GetApplicationForm(ctx, shortcode)
	if err != nil {
		return Form{}, err
	}
	form, err := model.Build(shortcode, app)
	if err != nil {
		return Form{}, fmt.Errorf("workable: build form model: %w", err)
	}
	return form, nil
}

// RenderHTML fetches a job's form and renders the HTML fragment in one
// call, the simplest entry point for hosts.
func (p *Pipeline) RenderHTML(ctx context.Context, shortcode string, opts RenderOptions) ([]byte, error) {
	form, err := p.FetchForm(ctx, shortcode)
	if err != nil {
		return nil, err
	}
	return p.renderer.RenderForm("", form, opts)
}

// Validate runs the submit-gate checks over collected values.
func (p *Pipeline) Validate(form Form, values Values) validation.Report {
	return validation.Validate(form, values)
}

// Submit assembles and posts one candidate submission.
func (p *Pipeline) Submit(ctx context.Context, form Form, values Values, files map[string]File) Result {
	return p.submitter.Submit(ctx, form, values, files)
}
