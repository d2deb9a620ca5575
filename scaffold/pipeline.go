// Package scaffold provisions a new project from a template repository.
//
// A run moves strictly forward through its stages and stops at the first failure.
// Whatever the completed stages left on disk stays there; a second run with the same
// project name fails at provisioning instead of resuming into that directory.
package scaffold

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kxue43/repo-cloner/catalog"
	"github.com/kxue43/repo-cloner/pkgjson"
	"github.com/kxue43/repo-cloner/prompt"
	"github.com/kxue43/repo-cloner/vcs"
)

type (
	Stage byte

	Request struct {
		TemplateID  string
		ProjectName string
	}

	Result struct {
		Request
		Template catalog.Template
		// Dir is the project directory, relative to the pipeline's working directory.
		Dir          string
		Commit       string
		HasPackage   bool
		PreviousName string
		NextSteps    []string
	}

	Prompter interface {
		Ask(choices []prompt.Choice) (templateID, projectName string, err error)
	}

	VCS interface {
		Clone(ctx context.Context, url, dir string) error
		Init(dir string) error
		AddAll(dir string) error
		Commit(dir, message string) (hash string, err error)
	}

	Logger interface {
		Debugf(string, ...any)
		Infof(string, ...any)
	}

	// Observer is told about every stage the pipeline enters.
	Observer interface {
		Enter(stage Stage, req Request, tmplt catalog.Template)
	}

	Pipeline struct {
		Catalog  *catalog.Catalog
		Prompter Prompter
		VCS      VCS
		Logger   Logger
		Observer Observer
		// WorkDir is where the project directory gets created.
		WorkDir string
		// CommitMessage defaults to [InitialCommitMessage].
		CommitMessage string
		state         Stage
		removeAll     func(string) error
	}
)

const (
	Idle Stage = iota
	Prompting
	Provisioning
	Sanitizing
	RewritingMetadata
	Reinitializing
	Succeeded
	Failed
)

const InitialCommitMessage = "chore: initial project setup 🚀"

func (s Stage) String() string {
	switch s {
	case Idle:
		return "idle"
	case Prompting:
		return "prompting"
	case Provisioning:
		return "provisioning"
	case Sanitizing:
		return "sanitizing"
	case RewritingMetadata:
		return "rewriting metadata"
	case Reinitializing:
		return "reinitializing"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("stage(%d)", byte(s))
	}
}

func (p *Pipeline) State() Stage {
	return p.state
}

// Run prompts for a request and provisions it.
// Non-nil returned error is a [*StageError]; classify it with [KindOf].
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	p.state = Idle

	p.enter(Prompting, Request{}, catalog.Template{})

	templateID, name, err := p.Prompter.Ask(choices(p.Catalog))
	if err != nil {
		return nil, p.fail(fmt.Errorf("failed to collect project details: %w", err))
	}

	return p.run(ctx, Request{TemplateID: templateID, ProjectName: name})
}

// Provision runs every stage after prompting for an already collected request.
// Non-nil returned error is a [*StageError]; classify it with [KindOf].
func (p *Pipeline) Provision(ctx context.Context, req Request) (*Result, error) {
	p.state = Idle

	return p.run(ctx, req)
}

func (p *Pipeline) run(ctx context.Context, req Request) (*Result, error) {
	if err := prompt.ValidateName(req.ProjectName); err != nil {
		return nil, p.fail(fmt.Errorf("%w: project name %q: %w", ErrInvalidRequest, req.ProjectName, err))
	}

	tmplt, ok := p.Catalog.Lookup(req.TemplateID)
	if !ok {
		return nil, p.fail(fmt.Errorf("%w: %w: %q", ErrInvalidRequest, ErrUnknownTemplate, req.TemplateID))
	}

	res := Result{Request: req, Template: tmplt, Dir: req.ProjectName}
	dir := filepath.Join(p.WorkDir, req.ProjectName)

	p.enter(Provisioning, req, tmplt)

	if err := p.provision(ctx, tmplt, dir); err != nil {
		return nil, p.fail(err)
	}

	p.enter(Sanitizing, req, tmplt)

	if err := p.sanitize(dir); err != nil {
		return nil, p.fail(err)
	}

	p.enter(RewritingMetadata, req, tmplt)

	descriptor, err := p.rewriteMetadata(dir, req.ProjectName, &res)
	if err != nil {
		return nil, p.fail(err)
	}

	p.enter(Reinitializing, req, tmplt)

	if res.Commit, err = p.reinitialize(dir); err != nil {
		return nil, p.fail(err)
	}

	res.NextSteps = nextSteps(ctx, req.ProjectName, descriptor)

	p.state = Succeeded

	return &res, nil
}

func choices(c *catalog.Catalog) []prompt.Choice {
	templates := c.Templates()
	out := make([]prompt.Choice, len(templates))

	for i, t := range templates {
		out[i] = prompt.Choice{ID: t.ID, Description: t.Description}
	}

	return out
}

func (p *Pipeline) enter(stage Stage, req Request, tmplt catalog.Template) {
	p.state = stage

	if p.Logger != nil {
		p.Logger.Debugf("entering stage %q", stage)
	}

	if p.Observer != nil {
		p.Observer.Enter(stage, req, tmplt)
	}
}

func (p *Pipeline) fail(err error) error {
	stage := p.state
	p.state = Failed

	return &StageError{Stage: stage, Err: err}
}

func (p *Pipeline) debugf(format string, args ...any) {
	if p.Logger != nil {
		p.Logger.Debugf(format, args...)
	}
}

func (p *Pipeline) infof(format string, args ...any) {
	if p.Logger != nil {
		p.Logger.Infof(format, args...)
	}
}

func (p *Pipeline) provision(ctx context.Context, tmplt catalog.Template, dir string) error {
	found, err := exists(dir)
	if err != nil {
		return fmt.Errorf("%w: failed to check destination %q: %w", ErrFilesystem, dir, err)
	} else if found {
		return fmt.Errorf("%w: %q", ErrDestinationExists, dir)
	}

	p.infof("cloning %s from %s into %s", tmplt.ID, tmplt.URL, dir)

	err = p.VCS.Clone(ctx, tmplt.URL, dir)
	if errors.Is(err, ErrDestinationExists) {
		return err
	} else if err != nil {
		return fmt.Errorf("%w: %w", ErrFetch, err)
	}

	return nil
}

func (p *Pipeline) sanitize(dir string) error {
	metadata := filepath.Join(dir, vcs.MetadataDir)

	found, err := exists(metadata)
	if err != nil {
		return fmt.Errorf("%w: failed to check %q: %w", ErrFilesystem, metadata, err)
	} else if !found {
		p.debugf("no %s directory in %s, nothing to remove", vcs.MetadataDir, dir)

		return nil
	}

	removeAll := p.removeAll
	if removeAll == nil {
		removeAll = os.RemoveAll
	}

	if err = removeAll(metadata); err != nil {
		return fmt.Errorf("%w: failed to remove %q: %w", ErrFilesystem, metadata, err)
	}

	p.debugf("removed %s", metadata)

	return nil
}

// rewriteMetadata returns the rewritten descriptor, or nil if the project has none.
func (p *Pipeline) rewriteMetadata(dir, name string, res *Result) ([]byte, error) {
	path := filepath.Join(dir, pkgjson.FileName)

	contents, err := os.ReadFile(filepath.Clean(path))
	if os.IsNotExist(err) {
		p.debugf("no %s in %s, leaving metadata alone", pkgjson.FileName, dir)

		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("%w: failed to read %q: %w", ErrFilesystem, path, err)
	}

	descriptor, err := pkgjson.Parse(contents)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrMalformedMetadata, path, err)
	}

	res.HasPackage = true
	res.PreviousName = descriptor.Name()

	if err = descriptor.SetName(name); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedMetadata, err)
	}

	contents, err = descriptor.Marshal()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedMetadata, err)
	}

	if err = WriteToFile(dir, pkgjson.FileName, BytesHook(contents)); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFilesystem, err)
	}

	p.infof("renamed package from %q to %q", res.PreviousName, name)

	return contents, nil
}

func (p *Pipeline) reinitialize(dir string) (hash string, err error) {
	if err = p.VCS.Init(dir); err != nil {
		return "", fmt.Errorf("%w: %w", ErrVersionControl, err)
	}

	if err = p.VCS.AddAll(dir); err != nil {
		return "", fmt.Errorf("%w: %w", ErrVersionControl, err)
	}

	msg := p.CommitMessage
	if msg == "" {
		msg = InitialCommitMessage
	}

	hash, err = p.VCS.Commit(dir, msg)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrVersionControl, err)
	}

	p.infof("created initial commit %s", hash)

	return hash, nil
}

func nextSteps(ctx context.Context, name string, descriptor []byte) []string {
	start := "npm start"
	if descriptor != nil {
		start = pkgjson.StartCommand(ctx, descriptor)
	}

	return []string{"cd " + name, "npm install", start}
}
